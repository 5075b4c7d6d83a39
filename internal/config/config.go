package config

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	EnvConfigFilePath = "CONFIG_FILE_PATH"

	EnvDatabaseURL  = "DATABASE_URL"
	EnvPort         = "PORT"
	EnvJWTSecret    = "JWT_SECRET"
	EnvAnonSecret   = "ANON_SECRET"
	EnvRedisAddr    = "REDIS_ADDR"
	EnvStoreTimeout = "STORE_TIMEOUT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvTimezone     = "TIMEZONE"
)

// LoggerConfig configura o slog e a rotação de arquivos
type LoggerConfig struct {
	Level           string `yaml:"level"`
	IncludeSrc      bool   `yaml:"include_src"`
	LogToFile       bool   `yaml:"log_to_file"`
	Filename        string `yaml:"filename"`
	MaxSize         int    `yaml:"max_size"`
	MaxAge          int    `yaml:"max_age"`
	MaxBackups      int    `yaml:"max_backups"`
	CompressOldLogs bool   `yaml:"compress_old_logs"`
}

type DatabaseConfig struct {
	URL                string `yaml:"url"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	ConnMaxLifetime    string `yaml:"conn_max_lifetime"`
	StoreTimeout       string `yaml:"store_timeout"`
	SlowQueryThreshold string `yaml:"slow_query_threshold"`
	// read_committed, repeatable_read ou serializable
	Isolation string `yaml:"isolation"`
	LogLevel  string `yaml:"log_level"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	StatisticsTTL string `yaml:"statistics_ttl"`
	DirectoryTTL  string `yaml:"directory_ttl"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type Config struct {
	Port         string         `yaml:"port"`
	AllowOrigins []string       `yaml:"allow_origins"`
	Timezone     string         `yaml:"timezone"`
	AnonSecret   string         `yaml:"anon_secret"`
	Logging      LoggerConfig   `yaml:"logging"`
	Database     DatabaseConfig `yaml:"database"`
	Redis        RedisConfig    `yaml:"redis"`
	Cache        CacheConfig    `yaml:"cache"`
	Auth         AuthConfig     `yaml:"auth"`
}

// Default retorna a configuração usada quando nada é informado
func Default() Config {
	return Config{
		Port:         "8080",
		AllowOrigins: []string{"*"},
		Timezone:     "Asia/Seoul",
		Logging: LoggerConfig{
			Level:      "info",
			MaxSize:    100,
			MaxAge:     28,
			MaxBackups: 3,
		},
		Database: DatabaseConfig{
			MaxIdleConns:       20,
			MaxOpenConns:       150,
			ConnMaxLifetime:    "1h",
			StoreTimeout:       "5s",
			SlowQueryThreshold: "500ms",
			Isolation:          "read_committed",
			LogLevel:           "error",
		},
		Cache: CacheConfig{
			StatisticsTTL: "10m",
			DirectoryTTL:  "5m",
		},
	}
}

// Load lê .env, depois o YAML de CONFIG_FILE_PATH e por fim as variáveis de ambiente
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	conf := Default()
	if path := os.Getenv(EnvConfigFilePath); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return conf, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(content, &conf); err != nil {
			return conf, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&conf)

	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

func applyEnv(conf *Config) {
	conf.Database.URL = getEnv(EnvDatabaseURL, conf.Database.URL)
	conf.Port = getEnv(EnvPort, conf.Port)
	conf.Auth.JWTSecret = getEnv(EnvJWTSecret, conf.Auth.JWTSecret)
	conf.AnonSecret = getEnv(EnvAnonSecret, conf.AnonSecret)
	conf.Redis.Addr = getEnv(EnvRedisAddr, conf.Redis.Addr)
	conf.Database.StoreTimeout = getEnv(EnvStoreTimeout, conf.Database.StoreTimeout)
	conf.Logging.Level = getEnv(EnvLogLevel, conf.Logging.Level)
	conf.Timezone = getEnv(EnvTimezone, conf.Timezone)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Validate confere campos obrigatórios e formatos de duração
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("%s is not defined", EnvDatabaseURL)
	}
	durations := map[string]string{
		"database.conn_max_lifetime":    c.Database.ConnMaxLifetime,
		"database.store_timeout":        c.Database.StoreTimeout,
		"database.slow_query_threshold": c.Database.SlowQueryThreshold,
		"cache.statistics_ttl":          c.Cache.StatisticsTTL,
		"cache.directory_ttl":           c.Cache.DirectoryTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	if _, err := c.IsolationLevel(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Duration converte um campo já validado; valores inválidos viram zero
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

func (c Config) StoreTimeout() time.Duration       { return Duration(c.Database.StoreTimeout) }
func (c Config) SlowQueryThreshold() time.Duration { return Duration(c.Database.SlowQueryThreshold) }
func (c Config) ConnMaxLifetime() time.Duration    { return Duration(c.Database.ConnMaxLifetime) }
func (c Config) StatisticsTTL() time.Duration      { return Duration(c.Cache.StatisticsTTL) }
func (c Config) DirectoryTTL() time.Duration       { return Duration(c.Cache.DirectoryTTL) }

// IsolationLevel traduz o nível configurado para database/sql
func (c Config) IsolationLevel() (sql.IsolationLevel, error) {
	switch strings.ToLower(c.Database.Isolation) {
	case "", "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	}
	return sql.LevelDefault, fmt.Errorf("invalid isolation level %q", c.Database.Isolation)
}
