package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"qpc/config"
	"qpc/docmodel"
	"qpc/docx"
	"qpc/htmlconv"
	"qpc/images"
	"qpc/state"
	"qpc/stylemap"
)

// RunExport handles the "export" command: an HTML manuscript is
// converted to the block sequence and serialized as .docx or standalone
// HTML. In analysis mode a scoring report is appended after the
// manuscript.
func RunExport(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")

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

	format, err := config.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to docx", zap.Error(err))
		format = config.OutputFmtDocx
	}
	mode, err := config.ParseExportMode(cmd.String("mode"))
	if err != nil {
		log.Warn("Unknown export mode requested, switching to writer", zap.Error(err))
		mode = config.ExportModeWriter
	}

	var analysis *Analysis
	if path := cmd.String("analysis"); path != "" {
		if analysis, err = LoadAnalysis(path); err != nil {
			return err
		}
	}
	if mode == config.ExportModeAnalysis && analysis == nil {
		log.Warn("Analysis mode requested without an analysis report, exporting manuscript only")
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return exportDocument(ctx, src, dst, format, mode, analysis, log)
}

func exportDocument(ctx context.Context, src, dst string, format config.OutputFmt, mode config.ExportMode, analysis *Analysis, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// graphics decoding may panic on broken input, one bad document
		// must not take the batch down
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read input file: %w", err)
	}

	imgCfg := env.Cfg.Document.Images
	resolver := images.NewResolver(images.Options{
		MaxWidth:              imgCfg.MaxWidth,
		MaxHeight:             imgCfg.MaxHeight,
		JPEGQuality:           imgCfg.JPEGQuality,
		RemovePNGTransparency: imgCfg.RemovePNGTransparency,
		FetchRemote:           imgCfg.FetchRemote,
		FetchTimeout:          time.Duration(imgCfg.FetchTimeoutSec) * time.Second,
		UsePlaceholder:        imgCfg.UsePlaceholder,
	}, log)

	conv := htmlconv.New(stylemap.New(), resolver, log)
	blocks, err := conv.Convert(ctx, string(data))
	if err != nil {
		return fmt.Errorf("unable to convert source (%s): %w", src, err)
	}

	if mode == config.ExportModeAnalysis && analysis != nil {
		blocks = append(blocks, AppendixBlocks(analysis)...)
	}

	title := documentTitle(blocks)
	if title == "" {
		title = filepath.Base(src)
		title = title[:len(title)-len(filepath.Ext(title))]
	}

	outputName = buildOutputPath(title, filepath.Base(src), dst, format, env)
	if err := prepareOutputFile(outputName, env, log); err != nil {
		return err
	}

	switch format {
	case config.OutputFmtDocx:
		a := docx.NewAssembler(stylemap.New(), log)
		if err := a.Generate(ctx, blocks, title, outputName, &env.Cfg.Document); err != nil {
			return fmt.Errorf("unable to generate output: %w", err)
		}
	case config.OutputFmtHtml:
		e, err := docx.NewHTMLExporter(stylemap.New(), log)
		if err != nil {
			return err
		}
		if err := e.Generate(ctx, blocks, title, outputName); err != nil {
			return fmt.Errorf("unable to generate output: %w", err)
		}
	}
	return nil
}

// documentTitle picks the first title-like paragraph of the manuscript.
func documentTitle(blocks []docmodel.Block) string {
	for _, b := range blocks {
		p, ok := b.(*docmodel.Paragraph)
		if !ok {
			continue
		}
		if p.Style == "Title" || p.HeadingLevel == 1 {
			if t := p.Text(); t != "" {
				return t
			}
		}
	}
	return ""
}
