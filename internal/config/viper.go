// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// OCR backend names accepted by ocr.backend.
const (
	BackendTesseract = "tesseract"
	BackendGosseract = "gosseract"
	BackendGemini    = "gemini"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	PDF struct {
		Pdftoppm string `mapstructure:"pdftoppm" yaml:"pdftoppm"`
		Pdfinfo  string `mapstructure:"pdfinfo" yaml:"pdfinfo"`
		DPI      int    `mapstructure:"dpi" yaml:"dpi"`
		MaxPages int    `mapstructure:"max_pages" yaml:"max_pages"`
	} `mapstructure:"pdf" yaml:"pdf"`

	OCR struct {
		Backend     string   `mapstructure:"backend" yaml:"backend"`
		Tesseract   string   `mapstructure:"tesseract" yaml:"tesseract"`
		Languages   []string `mapstructure:"languages" yaml:"languages"`
		TessdataDir string   `mapstructure:"tessdata_dir" yaml:"tessdata_dir"`
		PSM         int      `mapstructure:"psm" yaml:"psm"`
		OEM         int      `mapstructure:"oem" yaml:"oem"`
		PageWorkers int      `mapstructure:"page_workers" yaml:"page_workers"`
		Normalize   bool     `mapstructure:"normalize" yaml:"normalize"`
	} `mapstructure:"ocr" yaml:"ocr"`

	Gemini struct {
		Model  string `mapstructure:"model" yaml:"model"`
		APIKey string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"gemini" yaml:"gemini"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.docextract")
	v.AddConfigPath(".docextract")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("DOCEXTRACT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			Logger.Warnf("error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key is read from the unprefixed variable
	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		Logger.Warnf("failed to bind GEMINI_API_KEY environment variable: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Comma-separated lists from the environment arrive as a single element
	config.OCR.Languages = splitLanguages(config.OCR.Languages)

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration produced by defaults alone, without
// reading files or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Poppler defaults
	v.SetDefault("pdf.pdftoppm", "pdftoppm")
	v.SetDefault("pdf.pdfinfo", "pdfinfo")
	v.SetDefault("pdf.dpi", 300)
	v.SetDefault("pdf.max_pages", 0)

	// OCR defaults
	v.SetDefault("ocr.backend", BackendTesseract)
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.languages", []string{"chi_sim", "eng"})
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.oem", -1)
	v.SetDefault("ocr.page_workers", 1)
	v.SetDefault("ocr.normalize", false)

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	// Batch defaults
	v.SetDefault("batch.workers", 4)
}

func splitLanguages(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == '+' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.PDF.DPI < 72 || config.PDF.DPI > 1200 {
		return fmt.Errorf("pdf.dpi must be between 72 and 1200, got: %d", config.PDF.DPI)
	}

	if config.PDF.MaxPages < 0 {
		return fmt.Errorf("pdf.max_pages must not be negative, got: %d", config.PDF.MaxPages)
	}

	switch config.OCR.Backend {
	case BackendTesseract, BackendGosseract:
	case BackendGemini:
		if config.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when ocr.backend is %s", BackendGemini)
		}
	default:
		return fmt.Errorf("invalid ocr.backend: %s (must be one of %s, %s, %s)",
			config.OCR.Backend, BackendTesseract, BackendGosseract, BackendGemini)
	}

	// Recognition must cover a Latin and a CJK script at once
	if len(config.OCR.Languages) < 2 {
		return fmt.Errorf("ocr.languages must list at least two languages, got: %v", config.OCR.Languages)
	}

	if config.OCR.PSM < 0 || config.OCR.PSM > 13 {
		return fmt.Errorf("ocr.psm must be between 0 and 13, got: %d", config.OCR.PSM)
	}

	if config.OCR.OEM < -1 || config.OCR.OEM > 3 {
		return fmt.Errorf("ocr.oem must be between -1 and 3, got: %d", config.OCR.OEM)
	}

	if config.OCR.PageWorkers < 1 {
		return fmt.Errorf("ocr.page_workers must be at least 1, got: %d", config.OCR.PageWorkers)
	}

	if config.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got: %d", config.Batch.Workers)
	}

	return nil
}

// LanguageProfile joins the configured languages the way tesseract expects them.
func (c *Config) LanguageProfile() string {
	return strings.Join(c.OCR.Languages, "+")
}
