package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"formify.app/configs/configslog"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Session    SessionConfig    `mapstructure:"session"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Redis      RedisConfig      `mapstructure:"redis"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Jira       JiraConfig       `mapstructure:"jira"`
	Salesforce SalesforceConfig `mapstructure:"salesforce"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	BlockedPath string `mapstructure:"blocked_path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return d.dsnFor(d.Name)
}

// MaintenanceDSN points at the default postgres database, used to create Name.
func (d DatabaseConfig) MaintenanceDSN() string {
	return d.dsnFor("postgres")
}

func (d DatabaseConfig) dsnFor(name string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, name, d.SSLMode)
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	MaxAge     time.Duration `mapstructure:"max_age"`
	Secure     bool          `mapstructure:"secure"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggerOptions converts the section into configslog options.
func (l LoggingConfig) LoggerOptions() configslog.Options {
	return configslog.Options{
		Level:      l.Level,
		Directory:  l.Directory,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

// RedisConfig: an empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type JiraConfig struct {
	Domain     string `mapstructure:"domain"`
	Email      string `mapstructure:"email"`
	APIToken   string `mapstructure:"api_token"`
	ProjectKey string `mapstructure:"project_key"`
	// BaseURL overrides https://<domain>.atlassian.net.
	BaseURL string `mapstructure:"base_url"`
}

type SalesforceConfig struct {
	LoginURL      string `mapstructure:"login_url"`
	ClientID      string `mapstructure:"client_id"`
	ClientSecret  string `mapstructure:"client_secret"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	SecurityToken string `mapstructure:"security_token"`
	APIVersion    string `mapstructure:"api_version"`
}

var (
	confMu sync.RWMutex
	conf   = defaultConfig()
)

// Conf returns the current configuration snapshot.
func Conf() Config {
	confMu.RLock()
	defer confMu.RUnlock()
	return conf
}

// SetConf replaces the configuration. Used at startup and in tests.
func SetConf(c Config) {
	confMu.Lock()
	conf = c
	confMu.Unlock()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.blocked_path", "/blocked")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "formify")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", "formify_session")
	v.SetDefault("session.max_age", 30*24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.directory", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("http.timeout", 10*time.Second)

	v.SetDefault("jira.domain", "")
	v.SetDefault("jira.email", "")
	v.SetDefault("jira.api_token", "")
	v.SetDefault("jira.project_key", "")
	v.SetDefault("jira.base_url", "")

	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.client_id", "")
	v.SetDefault("salesforce.client_secret", "")
	v.SetDefault("salesforce.username", "")
	v.SetDefault("salesforce.password", "")
	v.SetDefault("salesforce.security_token", "")
	v.SetDefault("salesforce.api_version", "v59.0")
}

func defaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads .env, an optional config/config.yaml under configDir and FORMIFY_* environment
// variables, in increasing priority. Changes to the yaml file are picked up while running.
func Load(configDir string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("FORMIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		fileFound = false
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if c.Session.Secret == "" {
		return errors.New("session secret is required (FORMIFY_SESSION_SECRET)")
	}
	SetConf(c)

	if fileFound {
		v.OnConfigChange(func(e fsnotify.Event) {
			var reloaded Config
			if err := v.Unmarshal(&reloaded); err != nil {
				configslog.Log.Error("Error reloading configuration", zap.Error(err))
				return
			}
			SetConf(reloaded)
			configslog.Log.Info("Configuration file changed, reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return nil
}
