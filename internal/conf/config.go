// Package conf loads and validates the service configuration.
package conf

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/filedrop/filedrop/internal/pkg/mongo"
)

// Storage backend selector values.
const (
	BackendMinIO = "minio"
	BackendLocal = "local"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	MinIO   MinIOConfig   `mapstructure:"minio"`
	Mongo   mongo.Config  `mapstructure:"mongo"`
	Upload  UploadConfig  `mapstructure:"upload"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig selects and parameterizes the blob storage backend.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`    // "minio" or "local"
	LocalPath string `mapstructure:"local_path"` // root directory for the local backend
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type UploadConfig struct {
	// AllowedExtensions is the case-insensitive suffix allow-list,
	// entries include the leading dot.
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	Output string        `mapstructure:"output"`
	File   FileLogConfig `mapstructure:"file"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5001)
	viper.SetDefault("storage.backend", BackendMinIO)
	viper.SetDefault("storage.local_path", "./uploads")
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.bucket", "files")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "filedrop")
	viper.SetDefault("upload.allowed_extensions", []string{".txt", ".jpg", ".png", ".json"})
	viper.SetDefault("cors.origin", "http://localhost:3000")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "console")
}

// normalize cleans up values that tend to arrive in slightly wrong shapes.
func (c *Config) normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))

	// The MinIO SDK wants host:port, not a URL.
	c.MinIO.Endpoint = strings.TrimPrefix(c.MinIO.Endpoint, "http://")
	c.MinIO.Endpoint = strings.TrimPrefix(c.MinIO.Endpoint, "https://")

	for i, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Upload.AllowedExtensions[i] = ext
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("minio endpoint is required when storage backend is %q", BackendMinIO)
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("minio bucket is required when storage backend is %q", BackendMinIO)
		}
	case BackendLocal:
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage local_path is required when storage backend is %q", BackendLocal)
		}
	default:
		return fmt.Errorf("unknown storage backend: %q (want %q or %q)",
			c.Storage.Backend, BackendMinIO, BackendLocal)
	}

	if err := c.Mongo.Validate(); err != nil {
		return err
	}

	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload allowed_extensions must not be empty")
	}

	return nil
}
