package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// PageConfig describes page geometry and running headers/footers for
	// the word-processor output. All distances are in twips (1/20 pt).
	PageConfig struct {
		Size         PageSize `yaml:"size" validate:"gte=0"`
		MarginTop    int      `yaml:"margin_top" validate:"min=0"`
		MarginBottom int      `yaml:"margin_bottom" validate:"min=0"`
		MarginLeft   int      `yaml:"margin_left" validate:"min=0"`
		MarginRight  int      `yaml:"margin_right" validate:"min=0"`
		FacingPages  bool     `yaml:"facing_pages"`
		Header       string   `yaml:"header"`
		Footer       string   `yaml:"footer"`
		PageNumbers  bool     `yaml:"page_numbers"`
	}

	// ImagesConfig controls image resolution during conversion. Maximum
	// display dimensions are in points.
	ImagesConfig struct {
		MaxWidth              int  `yaml:"max_width" validate:"min=16"`
		MaxHeight             int  `yaml:"max_height" validate:"min=16"`
		JPEGQuality           int  `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
		RemovePNGTransparency bool `yaml:"remove_png_transparency"`
		FetchRemote           bool `yaml:"fetch_remote"`
		FetchTimeoutSec       int  `yaml:"fetch_timeout_sec" validate:"min=1"`
		UsePlaceholder        bool `yaml:"use_placeholder"`
	}

	// TOCConfig controls table of contents generation on export. Page
	// numbers are estimated from CharsPerPage, they are NOT guaranteed to
	// match pagination computed by the consuming word processor.
	TOCConfig struct {
		Enable       bool   `yaml:"enable"`
		Title        string `yaml:"title" validate:"required_unless=Enable false"`
		MaxLevel     int    `yaml:"max_level" validate:"min=1,max=3"`
		CharsPerPage int    `yaml:"chars_per_page" validate:"min=500"`
	}

	DocumentConfig struct {
		FixZip                bool         `yaml:"fix_zip"`
		OutputNameTemplate    string       `yaml:"output_name_template"`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
		Images                ImagesConfig `yaml:"images"`
		Page                  PageConfig   `yaml:"page"`
		TOC                   TOCConfig    `yaml:"toc"`
	}

	// StoreConfig selects where imported originals are kept. Empty path
	// means process-local memory only, nothing survives program exit.
	StoreConfig struct {
		Path string `yaml:"path,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	// TextConfig controls plain text statistics computed at import time.
	TextConfig struct {
		SentencesModelPath string `yaml:"sentences_model_path,omitempty" sanitize:"assure_file_access"`
		WordsPerMinute     int    `yaml:"words_per_minute" validate:"min=60,max=1000"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Document DocumentConfig `yaml:"document"`
		Store    StoreConfig    `yaml:"store"`
		Text     TextConfig     `yaml:"text"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
	PageHeaderFieldName         TemplateFieldName = "header"
	PageFooterFieldName         TemplateFieldName = "footer"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(PageHeaderFieldName)),
	gencfg.WithDoNotExpandField(string(PageFooterFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
