package textstat

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Splitter tokenizes plain text into sentences using a trained punkt
// model. A nil Splitter is valid and falls back to a punctuation
// heuristic.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter loads tokenizer training data from modelPath. A directory
// path selects the English model inside it by language name, same as
// NewSplitterForLanguage. Gzipped models are uncompressed transparently.
// Any load problem is logged and yields a nil splitter so statistics
// still work, just less precisely.
func NewSplitter(modelPath string, log *zap.Logger) *Splitter {
	if modelPath == "" {
		return nil
	}
	if fi, err := os.Stat(modelPath); err == nil && fi.IsDir() {
		return NewSplitterForLanguage(modelPath, language.English, log)
	}
	return loadSplitter(modelPath, log)
}

// NewSplitterForLanguage picks a training file inside modelDir by the
// tag's English language name ("english.json.gz"), falling back to the
// base tag code ("en.json.gz") when no such file exists.
func NewSplitterForLanguage(modelDir string, lang language.Tag, log *zap.Logger) *Splitter {
	fileName := filepath.Join(modelDir, strings.ToLower(display.English.Languages().Name(lang))+".json.gz")
	if _, err := os.Stat(fileName); err != nil {
		base, confidence := lang.Base()
		if confidence == language.No {
			log.Warn("Unable to determine language base", zap.Stringer("tag", lang), zap.Stringer("base", base))
			return nil
		}
		fileName = filepath.Join(modelDir, strings.ToLower(base.String())+".json.gz")
	}
	return loadSplitter(fileName, log)
}

func loadSplitter(modelPath string, log *zap.Logger) *Splitter {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		log.Warn("Unable to read sentence tokenizer data", zap.String("file name", modelPath), zap.Error(err))
		return nil
	}
	if strings.HasSuffix(modelPath, ".gz") {
		data, err = uncompressData(data)
		if err != nil {
			log.Warn("Unable to uncompress sentence tokenizer data", zap.String("file name", modelPath), zap.Error(err))
			return nil
		}
	}

	model, err := sentences.LoadTraining(data)
	if err != nil {
		log.Warn("Unable to load sentence tokenizer data", zap.String("file name", modelPath), zap.Error(err))
		return nil
	}
	return &Splitter{sentences.NewSentenceTokenizer(model)}
}

func uncompressData(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Split returns the sentences of in. Without a trained model a simple
// terminal-punctuation heuristic is used instead.
func (s *Splitter) Split(in string) []string {
	if s == nil {
		return heuristicSplit(in)
	}

	var out []string
	for _, sentence := range s.Tokenize(in) {
		if strings.TrimSpace(sentence.Text) == "" {
			continue
		}
		out = append(out, sentence.Text)
	}
	return out
}

// heuristicSplit breaks on '.', '!' and '?' followed by whitespace. Good
// enough for counting, not for display.
func heuristicSplit(in string) []string {
	var out []string
	var cur strings.Builder
	terminal := false
	for _, sym := range in {
		if terminal && unicode.IsSpace(sym) {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
			terminal = false
			continue
		}
		cur.WriteRune(sym)
		terminal = sym == '.' || sym == '!' || sym == '?'
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// SplitWords returns the words of in, NBSP treated as a separator.
func (*Splitter) SplitWords(in string) []string {
	var (
		result []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			result = append(result, word.String())
			word.Reset()
		}
	}
	for _, sym := range in {
		if isSeparator(sym) {
			flush()
			continue
		}
		word.WriteRune(sym)
	}
	flush()
	return result
}

func isSeparator(r rune) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85, 0xA0:
			return true
		}
		return false
	}
	return unicode.IsSpace(r)
}
