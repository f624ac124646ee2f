package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "APLUS_CONFIG"
	portEnv             = "BACKEND_PORT"
	logLevelEnv         = "LOG_LEVEL"
	databaseDSNEnv      = "DATABASE_DSN"
	databaseDriverEnv   = "DATABASE_DRIVER"
	ossAccessKeyIDEnv   = "ALIBABA_ACCESS_KEY_ID"
	ossAccessSecretEnv  = "ALIBABA_ACCESS_KEY_SECRET"
	ossEndpointEnv      = "ALIBABA_OSS_ENDPOINT"
	ossBucketEnv        = "ALIBABA_OSS_BUCKET"
	ocrProviderEnv      = "OCR_PROVIDER"
	ocrEndpointEnv      = "OCR_ENDPOINT"
	ocrAPIKeyEnv        = "OCR_API_KEY"
	ocrModelEnv         = "OCR_MODEL"
	geminiAPIKeyEnv     = "GEMINI_API_KEY"
	imageAPIURLEnv      = "IMAGE_API_URL"
	imageAPIKeyEnv      = "IMAGE_API_KEY"
	ingestionWorkersEnv = "INGESTION_WORKERS"

	ProviderChat   = "chat"
	ProviderGemini = "gemini"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Web         WebConfig         `yaml:"web"`
	Imaging     ImagingConfig     `yaml:"imaging"`
	Ingestion   IngestionConfig   `yaml:"ingestion"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port               string   `yaml:"port"`
	AllowedOrigins     []string `yaml:"allowedOrigins"`
	MaxMultipartMemory int64    `yaml:"maxMultipartMemoryMb"`
}

// Addr returns the listen address for Port.
func (s ServerConfig) Addr() string {
	return ":" + strings.TrimPrefix(s.Port, ":")
}

// LoggingConfig selects level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the SQL connection. An empty DSN disables the database.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"autoMigrate"`
}

// StorageConfig points at an S3-compatible bucket (Alibaba OSS in production).
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"accessKeyId"`
	AccessKeySecret string `yaml:"accessKeySecret"`
	PublicBaseURL   string `yaml:"publicBaseUrl"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
}

// Enabled reports whether credentials and endpoint are all present.
func (s StorageConfig) Enabled() bool {
	return s.AccessKeyID != "" && s.AccessKeySecret != "" && s.Endpoint != ""
}

// RecognitionConfig defines how to reach the OCR service.
type RecognitionConfig struct {
	Provider string        `yaml:"provider"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	Prompt   string        `yaml:"prompt"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Enabled reports whether an API key is configured for the provider.
func (r RecognitionConfig) Enabled() bool {
	return r.APIKey != ""
}

// WebConfig tunes URL fetching.
type WebConfig struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	Readable  bool          `yaml:"readable"`
}

// ImagingConfig points at the diffusion backend. An empty endpoint disables generation.
type ImagingConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	APIKey    string        `yaml:"apiKey"`
	OutputDir string        `yaml:"outputDir"`
	Timeout   time.Duration `yaml:"timeout"`
}

// IngestionConfig controls staging and item fan-out.
type IngestionConfig struct {
	UploadDir string `yaml:"uploadDir"`
	Workers   int    `yaml:"workers"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg, err := Parse(raw)
			if err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(ossAccessKeyIDEnv); v != "" {
		c.Storage.AccessKeyID = v
	}
	if v := os.Getenv(ossAccessSecretEnv); v != "" {
		c.Storage.AccessKeySecret = v
	}
	if v := os.Getenv(ossEndpointEnv); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv(ossBucketEnv); v != "" {
		c.Storage.Bucket = v
	}

	if v := os.Getenv(ocrProviderEnv); v != "" {
		c.Recognition.Provider = strings.ToLower(v)
	}
	if v := os.Getenv(ocrEndpointEnv); v != "" {
		c.Recognition.Endpoint = v
	}
	if v := os.Getenv(ocrModelEnv); v != "" {
		c.Recognition.Model = v
	}
	if v := os.Getenv(ocrAPIKeyEnv); v != "" {
		c.Recognition.APIKey = v
	}
	if v := os.Getenv(geminiAPIKeyEnv); v != "" && c.Recognition.Provider == ProviderGemini && c.Recognition.APIKey == "" {
		c.Recognition.APIKey = v
	}

	if v := os.Getenv(imageAPIURLEnv); v != "" {
		c.Imaging.Endpoint = v
	}
	if v := os.Getenv(imageAPIKeyEnv); v != "" {
		c.Imaging.APIKey = v
	}

	if v := os.Getenv(ingestionWorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Ingestion.Workers = n
		} else {
			log.Printf("config: ignoring %s=%q", ingestionWorkersEnv, v)
		}
	}
}

// mergeConfig copies every non-zero field of override onto base.
// Boolean switches can only be turned on from the file.
func mergeConfig(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}
	if override.Server.MaxMultipartMemory > 0 {
		base.Server.MaxMultipartMemory = override.Server.MaxMultipartMemory
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.AutoMigrate {
		base.Database.AutoMigrate = true
	}

	if override.Storage.Endpoint != "" {
		base.Storage.Endpoint = override.Storage.Endpoint
	}
	if override.Storage.Bucket != "" {
		base.Storage.Bucket = override.Storage.Bucket
	}
	if override.Storage.Region != "" {
		base.Storage.Region = override.Storage.Region
	}
	if override.Storage.AccessKeyID != "" {
		base.Storage.AccessKeyID = override.Storage.AccessKeyID
	}
	if override.Storage.AccessKeySecret != "" {
		base.Storage.AccessKeySecret = override.Storage.AccessKeySecret
	}
	if override.Storage.PublicBaseURL != "" {
		base.Storage.PublicBaseURL = override.Storage.PublicBaseURL
	}
	if override.Storage.UsePathStyle {
		base.Storage.UsePathStyle = true
	}

	if override.Recognition.Provider != "" {
		base.Recognition.Provider = strings.ToLower(override.Recognition.Provider)
	}
	if override.Recognition.Endpoint != "" {
		base.Recognition.Endpoint = override.Recognition.Endpoint
	}
	if override.Recognition.Model != "" {
		base.Recognition.Model = override.Recognition.Model
	}
	if override.Recognition.APIKey != "" {
		base.Recognition.APIKey = override.Recognition.APIKey
	}
	if override.Recognition.Prompt != "" {
		base.Recognition.Prompt = override.Recognition.Prompt
	}
	if override.Recognition.Timeout > 0 {
		base.Recognition.Timeout = override.Recognition.Timeout
	}

	if override.Web.UserAgent != "" {
		base.Web.UserAgent = override.Web.UserAgent
	}
	if override.Web.Timeout > 0 {
		base.Web.Timeout = override.Web.Timeout
	}
	if override.Web.Readable {
		base.Web.Readable = true
	}

	if override.Imaging.Endpoint != "" {
		base.Imaging.Endpoint = override.Imaging.Endpoint
	}
	if override.Imaging.APIKey != "" {
		base.Imaging.APIKey = override.Imaging.APIKey
	}
	if override.Imaging.OutputDir != "" {
		base.Imaging.OutputDir = override.Imaging.OutputDir
	}
	if override.Imaging.Timeout > 0 {
		base.Imaging.Timeout = override.Imaging.Timeout
	}

	if override.Ingestion.UploadDir != "" {
		base.Ingestion.UploadDir = override.Ingestion.UploadDir
	}
	if override.Ingestion.Workers > 0 {
		base.Ingestion.Workers = override.Ingestion.Workers
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:               "8000",
			AllowedOrigins:     []string{"*"},
			MaxMultipartMemory: 32,
		},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{Driver: "postgres", AutoMigrate: true},
		Storage:  StorageConfig{Bucket: "aplus-images"},
		Recognition: RecognitionConfig{
			Provider: ProviderChat,
			Endpoint: "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions",
			Model:    "qwen-vl-ocr-latest",
			Prompt:   "Extract all text from this document. Keep headings, lists and tables as Markdown.",
			Timeout:  2 * time.Minute,
		},
		Web:       WebConfig{Timeout: 30 * time.Second},
		Imaging:   ImagingConfig{OutputDir: "generated_images", Timeout: 2 * time.Minute},
		Ingestion: IngestionConfig{UploadDir: "uploads", Workers: 4},
	}
}
