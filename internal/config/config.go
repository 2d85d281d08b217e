// Package config handles scene log run configuration.
package config

// Config holds all settings for a summary writing run.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Demo    DemoConfig    `yaml:"demo"`
	Logging LoggingConfig `yaml:"logging"`
}

// LogConfig holds output log directory settings.
type LogConfig struct {
	// BaseDir is the directory holding one subdirectory per run.
	BaseDir string `yaml:"base_dir"`
	// MaxTextureSize caps material texture dimensions before they are
	// embedded; 0 disables the cap.
	MaxTextureSize int `yaml:"max_texture_size"`
}

// DemoConfig holds the demo scenario parameters.
type DemoConfig struct {
	Name           string `yaml:"name"`
	Steps          int    `yaml:"steps"`
	BatchSize      int    `yaml:"batch_size"`
	BaseResolution int    `yaml:"base_resolution"`
	ModelDir       string `yaml:"model_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			BaseDir:        "demo_logs",
			MaxTextureSize: 2048,
		},
		Demo: DemoConfig{
			Name:           "all",
			Steps:          20,
			BatchSize:      1,
			BaseResolution: 200,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
