package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"qpc/archive"
	"qpc/config"
	"qpc/docx"
	"qpc/state"
	"qpc/stylemap"
	"qpc/textstat"
)

// RunImport handles the "import" command: one or more .docx sources
// (file, directory or zip archive) are converted to editable HTML with
// plain-text statistics, originals optionally preserved in the store.
func RunImport(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("import")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	imp := newImportPipeline(env, log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	switch {
	case fi.Mode().IsDir():
		return imp.processDir(ctx, src, dst)
	case fi.Mode().IsRegular():
		ok, err := isArchiveFile(src)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if ok {
			return imp.processArchive(ctx, src, dst)
		}
		ok, err = isDocxFile(src)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if !ok {
			return fmt.Errorf("input was not recognized as a document (%s)", src)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("unable to read input file: %w", err)
		}
		return imp.processDocument(ctx, data, filepath.Base(src), dst)
	default:
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
}

// importPipeline carries the pieces shared between batch items.
type importPipeline struct {
	env      *state.LocalEnv
	log      *zap.Logger
	importer *docx.Importer
	splitter *textstat.Splitter
}

func newImportPipeline(env *state.LocalEnv, log *zap.Logger) *importPipeline {
	return &importPipeline{
		env:      env,
		log:      log,
		importer: docx.NewImporter(stylemap.New(), env.Store, log),
		splitter: textstat.NewSplitter(env.Cfg.Text.SentencesModelPath, log),
	}
}

// processDir finds every document under dir and imports them in natural
// name order.
func (p *importPipeline) processDir(ctx context.Context, dir, dst string) error {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if ok, err := isArchiveFile(path); err == nil && ok {
			paths = append(paths, path)
			return nil
		}
		if ok, err := isDocxFile(path); err == nil && ok {
			paths = append(paths, path)
			return nil
		}
		p.log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
		return nil
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		p.log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}
	sort.Slice(paths, func(i, j int) bool { return natural.Less(paths[i], paths[j]) })

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok, _ := isArchiveFile(path); ok {
			if err := p.processArchive(ctx, path, dst); err != nil {
				p.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			p.log.Error("Unable to read file", zap.String("file", path), zap.Error(err))
			continue
		}
		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := p.processDocument(ctx, data, src, dst); err != nil {
			p.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

// processArchive imports every document inside a zip collection.
func (p *importPipeline) processArchive(ctx context.Context, path, dst string) error {
	count := 0
	err := archive.Walk(path, "", func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isDocxInArchive(f) {
			p.log.Debug("Skipping file, not recognized as document", zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
			return nil
		}
		count++

		r, err := f.Open()
		if err != nil {
			p.log.Error("Unable to open file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			p.log.Error("Unable to read file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if err := p.processDocument(ctx, data, f.FileHeader.Name, dst); err != nil {
			p.log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		p.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return err
}

// processDocument imports one document and writes the editable HTML
// next to its statistics. "src" is the source path relative to the
// batch root, it shapes the output location.
func (p *importPipeline) processDocument(ctx context.Context, data []byte, src, dst string) error {
	log := p.log
	log.Info("Import starting", zap.String("from", src))
	start := time.Now()

	res, err := p.importer.Import(ctx, data, docx.ImportOptions{
		FileName:         filepath.Base(src),
		PreserveOriginal: p.env.Store != nil,
	})
	if err != nil {
		return fmt.Errorf("unable to import document (%s): %w", src, err)
	}

	stats := textstat.Compute(p.splitter, res.Text, p.env.Cfg.Text.WordsPerMinute)

	title := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	outputName := buildOutputPath(title, src, dst, config.OutputFmtHtml, p.env)
	if err := prepareOutputFile(outputName, p.env, log); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, []byte(res.HTML), 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	log.Info("Import completed",
		zap.String("to", outputName),
		zap.String("id", res.DocumentID),
		zap.Int("words", stats.Words),
		zap.Int("sentences", stats.Sentences),
		zap.Duration("reading_time", stats.ReadingTime),
		zap.Strings("styles", res.Meta.DetectedStyles),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// prepareOutputFile applies overwrite protection and makes sure the
// target directory exists.
func prepareOutputFile(outputName string, env *state.LocalEnv, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
