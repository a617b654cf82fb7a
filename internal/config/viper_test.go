package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitveg/docextract/internal/logging"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "pdftoppm", config.PDF.Pdftoppm)
	assert.Equal(t, "pdfinfo", config.PDF.Pdfinfo)
	assert.Equal(t, 300, config.PDF.DPI)
	assert.Equal(t, 0, config.PDF.MaxPages)
	assert.Equal(t, BackendTesseract, config.OCR.Backend)
	assert.Equal(t, "tesseract", config.OCR.Tesseract)
	assert.Equal(t, []string{"chi_sim", "eng"}, config.OCR.Languages)
	assert.Equal(t, "chi_sim+eng", config.LanguageProfile())
	assert.Equal(t, 0, config.OCR.PSM)
	assert.Equal(t, -1, config.OCR.OEM)
	assert.Equal(t, 1, config.OCR.PageWorkers)
	assert.False(t, config.OCR.Normalize)
	assert.Equal(t, "gemini-2.0-flash", config.Gemini.Model)
	assert.Equal(t, "", config.Gemini.APIKey)
	assert.Equal(t, 4, config.Batch.Workers)
}

func TestDefault_MatchesInitializedDefaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	loaded, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, loaded, Default())
	assert.NoError(t, validateConfig(Default()))
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	testEnvVars := map[string]string{
		"DOCEXTRACT_LOG_LEVEL":        "debug",
		"DOCEXTRACT_LOG_FORMAT":       "json",
		"DOCEXTRACT_PDF_DPI":          "200",
		"DOCEXTRACT_PDF_MAX_PAGES":    "5",
		"DOCEXTRACT_OCR_BACKEND":      "gemini",
		"DOCEXTRACT_OCR_LANGUAGES":    "chi_tra+eng",
		"DOCEXTRACT_OCR_PAGE_WORKERS": "3",
		"DOCEXTRACT_OCR_NORMALIZE":    "true",
		"DOCEXTRACT_GEMINI_MODEL":     "gemini-1.5-pro",
		"GEMINI_API_KEY":              "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 200, config.PDF.DPI)
	assert.Equal(t, 5, config.PDF.MaxPages)
	assert.Equal(t, BackendGemini, config.OCR.Backend)
	assert.Equal(t, []string{"chi_tra", "eng"}, config.OCR.Languages)
	assert.Equal(t, 3, config.OCR.PageWorkers)
	assert.True(t, config.OCR.Normalize)
	assert.Equal(t, "gemini-1.5-pro", config.Gemini.Model)
	assert.Equal(t, "test-api-key", config.Gemini.APIKey)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
  format: "json"
pdf:
  dpi: 150
  pdftoppm: "/opt/poppler/bin/pdftoppm"
ocr:
  languages: ["jpn", "eng"]
  tessdata_dir: "/usr/share/tessdata"
  psm: 6
batch:
  workers: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 150, config.PDF.DPI)
	assert.Equal(t, "/opt/poppler/bin/pdftoppm", config.PDF.Pdftoppm)
	assert.Equal(t, []string{"jpn", "eng"}, config.OCR.Languages)
	assert.Equal(t, "/usr/share/tessdata", config.OCR.TessdataDir)
	assert.Equal(t, 6, config.OCR.PSM)
	assert.Equal(t, 8, config.Batch.Workers)
	// untouched keys keep their defaults
	assert.Equal(t, "pdfinfo", config.PDF.Pdfinfo)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
pdf:
  dpi: 150
batch:
  workers: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	t.Setenv("DOCEXTRACT_LOG_LEVEL", "error")
	t.Setenv("DOCEXTRACT_BATCH_WORKERS", "6")
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level) // env var wins
	assert.Equal(t, 150, config.PDF.DPI)       // config file value
	assert.Equal(t, 6, config.Batch.Workers)   // env var wins
}

func TestInitializeConfig_InvalidEnvironment(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())
	t.Setenv("DOCEXTRACT_PDF_DPI", "20")

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "pdf.dpi")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "dpi too low",
			modifyConfig: func(c *Config) { c.PDF.DPI = 50 },
			expectError:  "pdf.dpi must be between 72 and 1200",
		},
		{
			name:         "dpi too high",
			modifyConfig: func(c *Config) { c.PDF.DPI = 2400 },
			expectError:  "pdf.dpi must be between 72 and 1200",
		},
		{
			name:         "negative max pages",
			modifyConfig: func(c *Config) { c.PDF.MaxPages = -1 },
			expectError:  "pdf.max_pages must not be negative",
		},
		{
			name:         "unknown backend",
			modifyConfig: func(c *Config) { c.OCR.Backend = "easyocr" },
			expectError:  "invalid ocr.backend",
		},
		{
			name:         "gemini without API key",
			modifyConfig: func(c *Config) { c.OCR.Backend = BackendGemini },
			expectError:  "GEMINI_API_KEY required",
		},
		{
			name:         "single language",
			modifyConfig: func(c *Config) { c.OCR.Languages = []string{"eng"} },
			expectError:  "ocr.languages must list at least two languages",
		},
		{
			name:         "psm out of range",
			modifyConfig: func(c *Config) { c.OCR.PSM = 14 },
			expectError:  "ocr.psm must be between 0 and 13",
		},
		{
			name:         "oem out of range",
			modifyConfig: func(c *Config) { c.OCR.OEM = 4 },
			expectError:  "ocr.oem must be between -1 and 3",
		},
		{
			name:         "zero page workers",
			modifyConfig: func(c *Config) { c.OCR.PageWorkers = 0 },
			expectError:  "ocr.page_workers must be at least 1",
		},
		{
			name:         "zero batch workers",
			modifyConfig: func(c *Config) { c.Batch.Workers = 0 },
			expectError:  "batch.workers must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_GeminiWithKey(t *testing.T) {
	config := Default()
	config.OCR.Backend = BackendGemini
	config.Gemini.APIKey = "k"
	assert.NoError(t, validateConfig(config))
}

func TestSplitLanguages(t *testing.T) {
	assert.Equal(t, []string{"chi_sim", "eng"}, splitLanguages([]string{"chi_sim+eng"}))
	assert.Equal(t, []string{"chi_sim", "eng", "jpn"}, splitLanguages([]string{"chi_sim, eng", "jpn"}))
	assert.Nil(t, splitLanguages(nil))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	clearTestEnvVars(t)

	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "text format info level", level: "info", format: "text"},
		{name: "json format debug level", level: "debug", format: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			config.Log.Level = tt.level
			config.Log.Format = tt.format

			logger := ConfigureLoggingFromConfig(config)
			require.NotNil(t, logger)
			adapter, ok := logger.(*logging.LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.level, adapter.Level().String())
		})
	}
}

func TestConfigureLoggingFromConfig_EnvOverride(t *testing.T) {
	clearTestEnvVars(t)
	t.Setenv("LOG_LEVEL", "WARN")

	logger := ConfigureLoggingFromConfig(Default())
	adapter, ok := logger.(*logging.LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, "warning", adapter.Level().String())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("DOCEXTRACT_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("DOCEXTRACT_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("DOCEXTRACT_TEST_MISSING_VALUE", "fallback"))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

// clearTestEnvVars unsets every variable the loader reads; t.Setenv restores
// the original values when the test ends.
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"DOCEXTRACT_LOG_LEVEL",
		"DOCEXTRACT_LOG_FORMAT",
		"DOCEXTRACT_PDF_PDFTOPPM",
		"DOCEXTRACT_PDF_PDFINFO",
		"DOCEXTRACT_PDF_DPI",
		"DOCEXTRACT_PDF_MAX_PAGES",
		"DOCEXTRACT_OCR_BACKEND",
		"DOCEXTRACT_OCR_TESSERACT",
		"DOCEXTRACT_OCR_LANGUAGES",
		"DOCEXTRACT_OCR_TESSDATA_DIR",
		"DOCEXTRACT_OCR_PSM",
		"DOCEXTRACT_OCR_OEM",
		"DOCEXTRACT_OCR_PAGE_WORKERS",
		"DOCEXTRACT_OCR_NORMALIZE",
		"DOCEXTRACT_GEMINI_MODEL",
		"DOCEXTRACT_GEMINI_API_KEY",
		"DOCEXTRACT_BATCH_WORKERS",
		"GEMINI_API_KEY",
		"LOG_LEVEL",
		"LOG_FORMAT",
	}

	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
