package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"apex-ml/internal/common"
)

// Settings carries the resolved runtime configuration for the inference
// service. Host and port select the listen address only; they carry no
// domain semantics.
type Settings struct {
	Host             string
	Port             int
	ModelPath        string
	DataPath         string
	ApproveThreshold float64
	PredictTimeout   time.Duration
	LogLevel         string
}

// ConfigFile is the YAML layout accepted via CONFIG_FILE. Environment
// variables override file values.
type ConfigFile struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	ML struct {
		ModelPath        string  `yaml:"modelPath"`
		ApproveThreshold float64 `yaml:"approveThreshold"`
		PredictTimeout   string  `yaml:"predictTimeout"`
	} `yaml:"ml"`

	System struct {
		DataPath string `yaml:"dataPath"`
		LogLevel string `yaml:"logLevel"`
	} `yaml:"system"`
}

// Load resolves settings from a YAML file when CONFIG_FILE is set, otherwise
// from environment variables with defaults.
func Load() (Settings, error) {
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	predictTimeout, err := time.ParseDuration(config.ML.PredictTimeout)
	if err != nil {
		predictTimeout = 5 * time.Second
	}

	settings := Settings{
		Host:             getEnvOrDefault(common.EnvMLServerHost, defaultString(config.Server.Host, common.DefaultHost)),
		Port:             getIntFromEnvOrConfig(common.EnvMLServerPort, config.Server.Port, common.DefaultPort),
		ModelPath:        getEnvOrDefault(common.EnvModelPath, config.ML.ModelPath),
		DataPath:         getEnvOrDefault(common.EnvDataPath, config.System.DataPath),
		ApproveThreshold: getFloatFromEnvOrConfig(common.EnvApproveThreshold, config.ML.ApproveThreshold, common.DefaultApproveThreshold),
		PredictTimeout:   getDurationOrDefault(common.EnvPredictTimeout, predictTimeout),
		LogLevel:         getEnvOrDefault(common.EnvLogLevel, defaultString(config.System.LogLevel, "info")),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		Host:             getEnvOrDefault(common.EnvMLServerHost, common.DefaultHost),
		Port:             getIntOrDefault(common.EnvMLServerPort, common.DefaultPort),
		ModelPath:        os.Getenv(common.EnvModelPath), // optional
		DataPath:         os.Getenv(common.EnvDataPath),  // optional
		ApproveThreshold: getFloatOrDefault(common.EnvApproveThreshold, common.DefaultApproveThreshold),
		PredictTimeout:   getDurationOrDefault(common.EnvPredictTimeout, 5*time.Second),
		LogLevel:         getEnvOrDefault(common.EnvLogLevel, "info"),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func defaultString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getFloatFromEnvOrConfig(key string, configValue, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.Host == "" {
		return fmt.Errorf("listen host cannot be empty")
	}
	if settings.Port < common.MinServerPort || settings.Port > common.MaxServerPort {
		return fmt.Errorf("server port must be between %d and %d, got %d",
			common.MinServerPort, common.MaxServerPort, settings.Port)
	}
	if settings.ApproveThreshold < 0 || settings.ApproveThreshold > 1 {
		return fmt.Errorf("approve threshold must be between 0 and 1, got %f", settings.ApproveThreshold)
	}
	if settings.PredictTimeout < 100*time.Millisecond || settings.PredictTimeout > time.Minute {
		return fmt.Errorf("predict timeout must be between 100ms and 1m, got %v", settings.PredictTimeout)
	}
	return nil
}
