package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upload     UploadConfig     `yaml:"upload"`
	Minio      MinioConfig      `yaml:"minio"`
	Cohere     CohereConfig     `yaml:"cohere"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Store      StoreConfig      `yaml:"store"`
	Auth       AuthConfig       `yaml:"auth"`
	Users      []User           `yaml:"users"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type UploadConfig struct {
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
}

type MinioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type CohereConfig struct {
	APIURL         string  `yaml:"api_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type ExtractionConfig struct {
	// Strategy selects the field extractor: "llm" or "heuristic".
	Strategy  string `yaml:"strategy"`
	Pdftotext string `yaml:"pdftotext"`
}

type PipelineConfig struct {
	Workers        int `yaml:"workers"`
	QueueSize      int `yaml:"queue_size"`
	JobTimeoutSecs int `yaml:"job_timeout_seconds"`
	StageDelayMS   int `yaml:"stage_delay_ms"`
}

type StoreConfig struct {
	MaxContracts int `yaml:"max_contracts"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Upload.MaxFileSizeMB == 0 {
		c.Upload.MaxFileSizeMB = 50
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.Cohere.APIURL == "" {
		c.Cohere.APIURL = "https://api.cohere.com"
	}
	if c.Cohere.Model == "" {
		c.Cohere.Model = "command-r-plus"
	}
	if c.Cohere.MaxTokens == 0 {
		c.Cohere.MaxTokens = 2000
	}
	if c.Cohere.Temperature == 0 {
		c.Cohere.Temperature = 0.1
	}
	if c.Cohere.TimeoutSeconds == 0 {
		c.Cohere.TimeoutSeconds = 60
	}
	if c.Extraction.Strategy == "" {
		c.Extraction.Strategy = "llm"
	}
	if c.Extraction.Pdftotext == "" {
		c.Extraction.Pdftotext = "pdftotext"
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 4
	}
	if c.Pipeline.QueueSize == 0 {
		c.Pipeline.QueueSize = 64
	}
	if c.Pipeline.JobTimeoutSecs == 0 {
		c.Pipeline.JobTimeoutSecs = 300
	}
	if c.Store.MaxContracts == 0 {
		c.Store.MaxContracts = 100
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
}

// applyEnvOverrides pulls secrets from the environment so they can stay out
// of the YAML file. godotenv in main makes a local .env visible here.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("COHERE_API_KEY"); v != "" {
		c.Cohere.APIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
