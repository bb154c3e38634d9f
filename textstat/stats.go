package textstat

import (
	"time"
	"unicode"
)

const defaultWordsPerMinute = 220

// Stats summarizes a plain text extraction for display next to the
// imported document.
type Stats struct {
	Words       int
	Sentences   int
	Characters  int // runes, whitespace excluded
	ReadingTime time.Duration
}

// Compute counts words, sentences and characters of text and estimates
// reading time at wordsPerMinute (a sensible default is applied when
// non-positive).
func Compute(s *Splitter, text string, wordsPerMinute int) Stats {
	if wordsPerMinute <= 0 {
		wordsPerMinute = defaultWordsPerMinute
	}

	var st Stats
	st.Words = len(s.SplitWords(text))
	st.Sentences = len(s.Split(text))
	for _, sym := range text {
		if !unicode.IsSpace(sym) {
			st.Characters++
		}
	}
	if st.Words > 0 {
		st.ReadingTime = time.Duration(float64(st.Words) / float64(wordsPerMinute) * float64(time.Minute)).Round(time.Second)
	}
	return st
}
