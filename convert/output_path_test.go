package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"qpc/config"
	"qpc/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	return &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputPath_SimpleCase_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath("My Novel", "drafts/final/chapter.html", "/output", config.OutputFmtDocx, env)
	expected := filepath.Join("/output", "chapter.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_SimpleCase_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := buildOutputPath("My Novel", "drafts/final/chapter.html", "/output", config.OutputFmtDocx, env)
	expected := filepath.Join("/output", "drafts", "final", "chapter.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format config.OutputFmt
		ext    string
	}{
		{"DOCX", config.OutputFmtDocx, ".docx"},
		{"HTML", config.OutputFmtHtml, ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, false, "")

			result := buildOutputPath("Title", "manuscript.html", "/output", tt.format, env)
			expected := filepath.Join("/output", "manuscript"+tt.ext)

			if result != expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, expected)
			}
		})
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, true, "")

	result := buildOutputPath("Рукопись", "Рукопись.html", "/output", config.OutputFmtDocx, env)
	expected := filepath.Join("/output", "rukopis.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Title }} ({{ .Format }})")

	result := buildOutputPath("My Novel", "input.html", "/output", config.OutputFmtDocx, env)
	expected := filepath.Join("/output", "My Novel (docx).docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_TemplateWithSubdirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Format }}/{{ .SourceFile }}")

	result := buildOutputPath("My Novel", "input.html", "/output", config.OutputFmtDocx, env)
	expected := filepath.Join("/output", "docx", "input.docx")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_BrokenTemplateFallsBack(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "{{ .Title")

	result := buildOutputPath("My Novel", "input.html", "/output", config.OutputFmtDocx, env)
	expected := filepath.Join("/output", "input.docx")

	if result != expected {
		t.Errorf("broken template must fall back to default name, got %q", result)
	}
}

func TestBuildOutputPath_IllegalCharactersCleaned(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath("x", "bad/na:me.html", "/output", config.OutputFmtDocx, env)
	if filepath.Base(result) != "na-me.docx" {
		t.Errorf("illegal characters not replaced: %q", result)
	}
}
