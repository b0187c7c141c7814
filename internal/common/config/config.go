package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"design-exporter/internal/common/logger"

	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string          `mapstructure:"port"`
	Environment  string          `mapstructure:"env"`
	ReadTimeout  int             `mapstructure:"read_timeout"`
	WriteTimeout int             `mapstructure:"write_timeout"`
	DBPath       string          `mapstructure:"db_path"`
	Log          logger.Config   `mapstructure:"log"`
	Inference    InferenceConfig `mapstructure:"inference"`
	Codegen      CodegenConfig   `mapstructure:"codegen"`
	Capture      CaptureConfig   `mapstructure:"capture"`
	Runs         RunsConfig      `mapstructure:"runs"`
}

type InferenceConfig struct {
	Model string `mapstructure:"model"`
}

type CodegenConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

type CaptureConfig struct {
	Supersample int `mapstructure:"supersample"`
}

type RunsConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

// envAliases: исторические имена переменных окружения без префикса.
var envAliases = map[string][]string{
	"port":          {"EXPORTER_PORT", "PORT"},
	"env":           {"EXPORTER_ENV", "ENV"},
	"read_timeout":  {"EXPORTER_READ_TIMEOUT", "READ_TIMEOUT"},
	"write_timeout": {"EXPORTER_WRITE_TIMEOUT", "WRITE_TIMEOUT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3003")
	v.SetDefault("env", "development")
	v.SetDefault("read_timeout", 10)
	v.SetDefault("write_timeout", 120)
	v.SetDefault("db_path", "data/db/design.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("inference.model", "gemini-2.0-flash")
	v.SetDefault("codegen.model", "gpt-4o")
	v.SetDefault("codegen.temperature", 0.2)
	v.SetDefault("capture.supersample", 2)
	v.SetDefault("runs.retention", time.Hour)
	v.SetDefault("runs.sweep_schedule", "@every 10m")
}

// Load загружает конфигурацию.
// Приоритет: переменные окружения > файл конфигурации > значения по умолчанию.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("EXPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var pathErr *os.PathError
			if !errors.As(err, &pathErr) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Capture.Supersample < 2 {
		cfg.Capture.Supersample = 2
	}
	return &cfg, nil
}
