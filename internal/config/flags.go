package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogDir   = flag.String("logdir", "", "Base output log directory")
	flagDemo     = flag.String("demo", "", "Demo to run (small-scale, property-reference, large-scale, with-material, all)")
	flagSteps    = flag.Int("steps", 0, "Number of steps for the large-scale demo")
	flagBatch    = flag.Int("batch", 0, "Batch size for the large-scale demo")
	flagModelDir = flag.String("model-dir", "", "Model directory for the with-material demo")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogDir != "" {
		cfg.Log.BaseDir = *flagLogDir
	}
	if *flagDemo != "" {
		cfg.Demo.Name = *flagDemo
	}
	if *flagSteps > 0 {
		cfg.Demo.Steps = *flagSteps
	}
	if *flagBatch > 0 {
		cfg.Demo.BatchSize = *flagBatch
	}
	if *flagModelDir != "" {
		cfg.Demo.ModelDir = *flagModelDir
	}
}
