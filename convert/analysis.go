package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"qpc/docmodel"
)

// PrincipleKind discriminates the two shapes a scoring engine reports
// per principle.
type PrincipleKind int

const (
	// PrincipleScore carries a numeric score with supporting details.
	PrincipleScore PrincipleKind = iota
	// PrincipleEvaluation carries qualitative findings without a score.
	PrincipleEvaluation
)

// PrincipleResult is one principle's outcome, resolved to a single
// shape at the boundary so the rest of the pipeline never inspects raw
// engine output.
type PrincipleResult struct {
	Kind     PrincipleKind
	Name     string
	Score    int      // valid for PrincipleScore
	Details  []string // valid for PrincipleScore
	Findings []string // valid for PrincipleEvaluation
}

// Analysis is the scoring report attached to an analysis-mode export.
type Analysis struct {
	OverallScore    int
	Principles      []PrincipleResult
	Recommendations []string
}

// rawPrinciple matches the engine's loose JSON: a principle either has
// "score"/"details" or just "findings".
type rawPrinciple struct {
	Name     string   `json:"name"`
	Score    *int     `json:"score"`
	Details  []string `json:"details"`
	Findings []string `json:"findings"`
}

type rawAnalysis struct {
	OverallScore    int            `json:"overallScore"`
	Principles      []rawPrinciple `json:"principles"`
	Recommendations []string       `json:"recommendations"`
}

// LoadAnalysis reads a scoring report from a JSON file and resolves
// every principle into its tagged form.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read analysis file: %w", err)
	}
	return ParseAnalysis(data)
}

// ParseAnalysis resolves the engine's duck-typed report into Analysis.
func ParseAnalysis(data []byte) (*Analysis, error) {
	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse analysis report: %w", err)
	}

	out := &Analysis{
		OverallScore:    raw.OverallScore,
		Recommendations: raw.Recommendations,
	}
	for _, p := range raw.Principles {
		pr := PrincipleResult{Name: p.Name}
		if p.Score != nil {
			pr.Kind = PrincipleScore
			pr.Score = *p.Score
			pr.Details = p.Details
		} else {
			pr.Kind = PrincipleEvaluation
			pr.Findings = p.Findings
		}
		out.Principles = append(out.Principles, pr)
	}
	return out, nil
}

// appendix fill colors, matching the callout palette of the editor
const (
	appendixFill   = "F2F2F2"
	appendixAccent = "404040"
)

// AppendixBlocks renders the report as a block sequence appended after
// the manuscript in analysis-mode exports.
func AppendixBlocks(a *Analysis) []docmodel.Block {
	if a == nil {
		return nil
	}

	blocks := []docmodel.Block{
		&docmodel.PageBreak{},
		&docmodel.Paragraph{
			Runs:         []docmodel.TextRun{{Text: "Analysis Report", Flags: docmodel.StyleFlags{Bold: true}}},
			Style:        "Heading 1",
			HeadingLevel: 1,
			Spacing:      docmodel.Spacing{Before: 400, After: 240},
			KeepNext:     true,
		},
		&docmodel.Paragraph{
			Runs: []docmodel.TextRun{
				{Text: "Overall score: ", Flags: docmodel.StyleFlags{Bold: true}},
				{Text: strconv.Itoa(a.OverallScore)},
			},
			Style:   "Normal",
			Spacing: docmodel.Spacing{After: 200},
		},
	}

	for _, p := range a.Principles {
		head := p.Name
		if p.Kind == PrincipleScore {
			head = fmt.Sprintf("%s: %d", p.Name, p.Score)
		}
		blocks = append(blocks, &docmodel.Paragraph{
			Runs:     []docmodel.TextRun{{Text: head, Flags: docmodel.StyleFlags{Bold: true, Color: appendixAccent}}},
			Style:    "Normal",
			Shading:  appendixFill,
			Indent:   docmodel.Indent{Left: 240, Right: 240},
			Spacing:  docmodel.Spacing{After: 60},
			KeepNext: true,
		})
		lines := p.Details
		if p.Kind == PrincipleEvaluation {
			lines = p.Findings
		}
		for _, line := range lines {
			blocks = append(blocks, &docmodel.Paragraph{
				Runs:    []docmodel.TextRun{{Text: line}},
				Style:   "Normal",
				Shading: appendixFill,
				Indent:  docmodel.Indent{Left: 240, Right: 240},
				Spacing: docmodel.Spacing{After: 60},
			})
		}
		blocks = append(blocks, &docmodel.Paragraph{Style: "Normal", Spacing: docmodel.Spacing{After: 120}})
	}

	if len(a.Recommendations) > 0 {
		blocks = append(blocks, &docmodel.Paragraph{
			Runs:         []docmodel.TextRun{{Text: "Recommendations", Flags: docmodel.StyleFlags{Bold: true}}},
			Style:        "Heading 2",
			HeadingLevel: 2,
			Spacing:      docmodel.Spacing{Before: 320, After: 160},
			KeepNext:     true,
		})
		for i, rec := range a.Recommendations {
			blocks = append(blocks, &docmodel.Paragraph{
				Runs:    []docmodel.TextRun{{Text: fmt.Sprintf("%d. %s", i+1, rec)}},
				Style:   "List Number",
				Indent:  docmodel.Indent{Left: 720},
				Spacing: docmodel.Spacing{After: 120},
			})
		}
	}
	return blocks
}
