package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Bootstrap Bootstrap `yaml:"bootstrap"`
	Analyzer  Analyzer  `yaml:"analyzer"`

	Server struct {
		Port    int               `yaml:"port"`
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // "", mysql, postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
}

// Bootstrap holds everything the gate chain needs. It replaces the working
// directory and activated-virtualenv state a shell script would rely on.
type Bootstrap struct {
	WorkDir        string        `yaml:"workDir"`
	Runtime        string        `yaml:"runtime"`
	PackageManager string        `yaml:"packageManager"`
	Manifest       string        `yaml:"manifest"`
	TestEntry      string        `yaml:"testEntry"`
	AnalyzerEntry  []string      `yaml:"analyzerEntry"`
	OutputDirs     []string      `yaml:"outputDirs"`
	ReportsDir     string        `yaml:"reportsDir"`
	ReportPattern  string        `yaml:"reportPattern"`
	PreviewLines   int           `yaml:"previewLines"`
	AssumeYes      bool          `yaml:"assumeYes"`
	CIWorkflowPath string        `yaml:"ciWorkflowPath"`
	LogFile        string        `yaml:"logFile"`
	StepTimeout    time.Duration `yaml:"stepTimeout"`
	Venv           struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"venv"`
	// ContainerImage runs every gate command inside this image when set.
	ContainerImage string `yaml:"containerImage"`
}

type Analyzer struct {
	BaseURL        string        `yaml:"baseURL"`
	ProbeURL       string        `yaml:"probeURL"`
	MaxProducts    int           `yaml:"maxProducts"`
	Workers        int           `yaml:"workers"`
	MaxRetries     int           `yaml:"maxRetries"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	UserAgent      string        `yaml:"userAgent"`
	TopN           int           `yaml:"topN"`
	ReportsDir     string        `yaml:"reportsDir"`
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var c Config
	c.Log.Level = "info"

	b := &c.Bootstrap
	b.WorkDir = "."
	b.Runtime = "python3"
	b.PackageManager = "pip3"
	b.Manifest = "requirements.txt"
	b.TestEntry = "test_system.py"
	b.AnalyzerEntry = []string{"enhanced_product_hunt_analyzer.py"}
	b.OutputDirs = []string{"reports", "logs", "data"}
	b.ReportsDir = "reports"
	b.ReportPattern = "product_hunt_analysis_*.md"
	b.PreviewLines = 20
	b.CIWorkflowPath = ".github/workflows/daily-analysis.yml"
	b.LogFile = "product_hunt_analysis.log"
	b.Venv.Enabled = true
	b.Venv.Dir = "venv"

	a := &c.Analyzer
	a.BaseURL = "https://decohack.com/producthunt-daily"
	a.ProbeURL = "https://decohack.com"
	a.MaxProducts = 10
	a.Workers = 3
	a.MaxRetries = 3
	a.RequestTimeout = 30 * time.Second
	a.UserAgent = DefaultUserAgent
	a.TopN = 3
	a.ReportsDir = "reports"

	c.Server.Port = 8080
	c.OpenAI.Model = "gpt-4o-mini"
	c.NATS.Subject = "phdaily.analysis.completed"
	return &c
}

// Load reads the yaml file at path on top of the defaults, then applies the
// .env file and environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// .env is optional; variables already set in the process win.
	_ = godotenv.Load()

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PathFromEnv returns CONFIG_PATH or config.yaml.
func PathFromEnv() string {
	return getEnv("CONFIG_PATH", "config.yaml")
}

func (c *Config) applyEnv() {
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	b := &c.Bootstrap
	b.WorkDir = getEnv("PHD_WORK_DIR", b.WorkDir)
	b.Runtime = getEnv("PHD_RUNTIME", b.Runtime)
	b.PackageManager = getEnv("PHD_PACKAGE_MANAGER", b.PackageManager)
	b.Manifest = getEnv("PHD_MANIFEST", b.Manifest)
	b.TestEntry = getEnv("PHD_TEST_ENTRY", b.TestEntry)
	if v := getEnv("PHD_ANALYZER_ENTRY", ""); v != "" {
		b.AnalyzerEntry = strings.Fields(v)
	}
	b.PreviewLines = getEnvAsInt("PHD_PREVIEW_LINES", b.PreviewLines)
	b.AssumeYes = getEnvAsBool("PHD_ASSUME_YES", b.AssumeYes)
	b.Venv.Enabled = getEnvAsBool("PHD_VENV", b.Venv.Enabled)
	b.StepTimeout = getEnvAsDuration("PHD_STEP_TIMEOUT", b.StepTimeout)
	b.ContainerImage = getEnv("PHD_CONTAINER_IMAGE", b.ContainerImage)

	a := &c.Analyzer
	a.BaseURL = getEnv("PHD_BASE_URL", a.BaseURL)
	a.Workers = getEnvAsInt("PHD_WORKERS", a.Workers)
	a.MaxProducts = getEnvAsInt("PHD_MAX_PRODUCTS", a.MaxProducts)

	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)

	c.Minio.Enabled = getEnvAsBool("MINIO_ENABLED", c.Minio.Enabled)
	c.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Minio.SecretKey)

	c.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.Model = getEnv("OPENAI_MODEL", c.OpenAI.Model)

	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
}

// Validate checks the settings the gates and analyzer cannot run without.
func (c *Config) Validate() error {
	b := c.Bootstrap
	if strings.TrimSpace(b.Runtime) == "" {
		return errors.New("bootstrap.runtime must not be empty")
	}
	if strings.TrimSpace(b.PackageManager) == "" {
		return errors.New("bootstrap.packageManager must not be empty")
	}
	if len(b.AnalyzerEntry) == 0 {
		return errors.New("bootstrap.analyzerEntry must not be empty")
	}
	if b.PreviewLines <= 0 {
		return fmt.Errorf("bootstrap.previewLines must be positive, got %d", b.PreviewLines)
	}
	if c.Analyzer.Workers <= 0 {
		return fmt.Errorf("analyzer.workers must be positive, got %d", c.Analyzer.Workers)
	}
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

// MySQLDSN builds the go-sql-driver DSN.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
