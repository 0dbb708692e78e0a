package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// RepoKind selects the storage backend.
type RepoKind string

const (
	RepoJSON   RepoKind = "json"
	RepoSQLite RepoKind = "sqlite"
	RepoMySQL  RepoKind = "mysql"
)

// Valid reports whether the kind names a known backend.
func (k RepoKind) Valid() bool {
	switch k {
	case RepoJSON, RepoSQLite, RepoMySQL:
		return true
	}
	return false
}

type Config struct {
	Env  string
	Repo RepoKind

	JSON   JSONConfig
	SQLite SQLiteConfig
	MySQL  MySQLConfig
	Log    LogConfig
}

// JSONConfig locates the flat-file store.
type JSONConfig struct {
	Path string
}

// SQLiteConfig locates the SQLite database file.
type SQLiteConfig struct {
	Path string
}

// MySQLConfig carries server connection credentials.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DSN renders the go-sql-driver connection string. parseTime is required
// so DATETIME columns scan into time.Time; clientFoundRows makes
// RowsAffected report matched rows rather than changed rows, so an
// update that rewrites identical values is not mistaken for a missing
// row.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env and the environment, with optional
// command-line flags layered on top.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// With an explicit config file viper reports absence as a plain
		// path error rather than ConfigFileNotFoundError.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if flags != nil {
		bindings := map[string]string{
			"REPO_KIND":      "repo",
			"JSON_PATH":      "json-file",
			"SQLITE_PATH":    "sqlite-file",
			"MYSQL_HOST":     "host",
			"MYSQL_PORT":     "port",
			"MYSQL_USER":     "user",
			"MYSQL_PASSWORD": "password",
			"MYSQL_DATABASE": "database",
		}
		for key, name := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Repo = RepoKind(strings.ToLower(v.GetString("REPO_KIND")))

	cfg.JSON = JSONConfig{Path: v.GetString("JSON_PATH")}
	cfg.SQLite = SQLiteConfig{Path: v.GetString("SQLITE_PATH")}

	cfg.MySQL = MySQLConfig{
		Host:     v.GetString("MYSQL_HOST"),
		Port:     v.GetInt("MYSQL_PORT"),
		User:     v.GetString("MYSQL_USER"),
		Password: v.GetString("MYSQL_PASSWORD"),
		Name:     v.GetString("MYSQL_DATABASE"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("REPO_KIND", string(RepoJSON))

	v.SetDefault("JSON_PATH", "StudentRecord.dat")
	v.SetDefault("SQLITE_PATH", "StudentBook.db")

	v.SetDefault("MYSQL_HOST", "localhost")
	v.SetDefault("MYSQL_PORT", 3306)
	v.SetDefault("MYSQL_USER", "studentbook")
	v.SetDefault("MYSQL_PASSWORD", "")
	v.SetDefault("MYSQL_DATABASE", "studentbook")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}
