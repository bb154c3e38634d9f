package textstat

import (
	"testing"
	"time"
)

func TestHeuristicSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"single", "Just one sentence.", 1},
		{"three", "One. Two! Three?", 3},
		{"no terminal punctuation", "a fragment without ending", 1},
		{"abbreviation splits too", "Dr. Smith arrived.", 2}, // known heuristic limit
	}
	var s *Splitter
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Split(tt.in); len(got) != tt.want {
				t.Fatalf("Split(%q) = %v, want %d sentences", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitWords(t *testing.T) {
	var s *Splitter
	got := s.SplitWords("one two\tthree\nfour five")
	if len(got) != 5 {
		t.Fatalf("expected 5 words, got %v", got)
	}
	if got := s.SplitWords("   "); len(got) != 0 {
		t.Fatalf("whitespace only must yield no words, got %v", got)
	}
}

func TestCompute(t *testing.T) {
	st := Compute(nil, "Hello brave new world. Second sentence here.", 120)
	if st.Words != 7 {
		t.Errorf("words = %d, want 7", st.Words)
	}
	if st.Sentences != 2 {
		t.Errorf("sentences = %d, want 2", st.Sentences)
	}
	// 44 runes total, 6 spaces
	if st.Characters != 38 {
		t.Errorf("characters = %d, want 38", st.Characters)
	}
	// 7 words at 120 wpm = 3.5s
	if st.ReadingTime != 4*time.Second {
		t.Errorf("reading time = %v, want 4s (rounded)", st.ReadingTime)
	}
}

func TestComputeEmpty(t *testing.T) {
	st := Compute(nil, "", 0)
	if st.Words != 0 || st.Sentences != 0 || st.Characters != 0 || st.ReadingTime != 0 {
		t.Fatalf("empty text must yield zero stats, got %+v", st)
	}
}
