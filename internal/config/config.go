package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Skills     []string         `yaml:"skills"`
	Validation ValidationConfig `yaml:"validation"`
	Redis      RedisConfig      `yaml:"redis"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects and configures the tabular store backend.
type StoreConfig struct {
	Backend  string         `yaml:"backend"` // excel, mysql or memory
	Excel    ExcelConfig    `yaml:"excel"`
	Database DatabaseConfig `yaml:"database"`
}

type ExcelConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Table              string        `yaml:"table"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type ValidationConfig struct {
	MaxCommentLength int `yaml:"max_comment_length"`
}

type RedisConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	DLQSuffix string `yaml:"dlq_suffix"`
}

// ArchiveConfig gates the export-archival pipeline. When disabled the API
// starts without Redis or object storage.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Queue       string `yaml:"queue"`
	KeyPrefix   string `yaml:"key_prefix"`
	WorkerCount int    `yaml:"worker_count"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "excel"
	}
	if c.Store.Excel.Sheet == "" {
		c.Store.Excel.Sheet = "Grades"
	}
	if c.Store.Database.Table == "" {
		c.Store.Database.Table = "grade_rows"
	}
	if c.Validation.MaxCommentLength == 0 {
		c.Validation.MaxCommentLength = 500
	}
	if c.Archive.Queue == "" {
		c.Archive.Queue = "gradebook:archive"
	}
	if c.Archive.KeyPrefix == "" {
		c.Archive.KeyPrefix = "exports/"
	}
	if c.Archive.WorkerCount == 0 {
		c.Archive.WorkerCount = 2
	}
	if c.Redis.DLQSuffix == "" {
		c.Redis.DLQSuffix = ":dlq"
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Store.Database.User, c.Store.Database.Password, c.Store.Database.Host, c.Store.Database.Port,
		c.Store.Database.Name, c.Store.Database.Charset, c.Store.Database.ParseTime, c.Store.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
