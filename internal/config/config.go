package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/nazmara/internal/constants"
)

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// BackupConfig controls automatic snapshots and how many are kept.
type BackupConfig struct {
	Keep int  `mapstructure:"keep" yaml:"keep"`
	Auto bool `mapstructure:"auto" yaml:"auto"`
}

type TasksConfig struct {
	DefaultPriority string `mapstructure:"default_priority" yaml:"default_priority"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Tasks    TasksConfig    `mapstructure:"tasks" yaml:"tasks"`
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ExpandPath(constants.DefaultDBPath)},
		Backup: BackupConfig{
			Keep: constants.DefaultBackupKeep,
			Auto: true,
		},
		Tasks: TasksConfig{DefaultPriority: constants.DefaultPriorityLabel},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(ExpandPath(path))
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("backup.keep", d.Backup.Keep)
	v.SetDefault("backup.auto", d.Backup.Auto)
	v.SetDefault("tasks.default_priority", d.Tasks.DefaultPriority)
	return v
}

// Load reads the YAML file at path. A missing file yields the defaults;
// NAZMARA_* environment variables override both. Variables may also be kept
// in nazmara.env next to the config file; the real environment wins.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(ExpandPath(path)), constants.EnvFileName)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
	}

	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	if cfg.Backup.Keep < 1 {
		cfg.Backup.Keep = constants.DefaultBackupKeep
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	path = ExpandPath(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.debug", cfg.Log.Debug)
	v.Set("backup.keep", cfg.Backup.Keep)
	v.Set("backup.auto", cfg.Backup.Auto)
	v.Set("tasks.default_priority", cfg.Tasks.DefaultPriority)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
