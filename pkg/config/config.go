package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Assembly AssemblyAIConfig
	Whisper  WhisperConfig
	Storage  StorageConfig
	Session  SessionConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// GeminiConfig holds the generative backend configuration
type GeminiConfig struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_API_URL" default:"https://generativelanguage.googleapis.com"`
	Model   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
}

// AssemblyAIConfig holds the hosted transcription provider configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// WhisperConfig holds the local transcription provider configuration
type WhisperConfig struct {
	Binary   string `envconfig:"WHISPER_BINARY" default:"whisper"`
	Model    string `envconfig:"WHISPER_MODEL" default:"small"`
	Language string `envconfig:"WHISPER_LANGUAGE" default:"id"`
	FFmpeg   string `envconfig:"FFMPEG_BINARY" default:"ffmpeg"`
}

// StorageConfig holds object storage configuration for uploaded audio
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"notulen-audio"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// SessionConfig holds session token and lifetime configuration
type SessionConfig struct {
	TokenSecret string        `envconfig:"SESSION_TOKEN_SECRET" default:"change-me-in-production"`
	TTL         time.Duration `envconfig:"SESSION_TTL" default:"4h"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Server.Environment == "production" && c.Session.TokenSecret == "change-me-in-production" {
		return fmt.Errorf("SESSION_TOKEN_SECRET must be set in production")
	}
	return nil
}
