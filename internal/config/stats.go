package config

import "github.com/spf13/pflag"

// StatsConfig holds configuration for the stats command.
type StatsConfig struct {
	AssetA        string
	AssetB        string
	Input         string
	Window        string
	PGDSN         string
	BatchSize     int
	StateFile     string
	RecomputeFrom string
	LogLevel      string
}

// LoadStats merges config file, environment variables, and flags into StatsConfig.
func LoadStats(cfgFile string, flags *pflag.FlagSet) (StatsConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"batch-size": 1000,
		"window":     "5m",
		"log-level":  "info",
	})
	if err != nil {
		return StatsConfig{}, err
	}

	cfg := StatsConfig{
		AssetA:        v.GetString("asset-a"),
		AssetB:        v.GetString("asset-b"),
		Input:         v.GetString("in"),
		Window:        v.GetString("window"),
		PGDSN:         v.GetString("pg-dsn"),
		BatchSize:     v.GetInt("batch-size"),
		StateFile:     v.GetString("state-file"),
		RecomputeFrom: v.GetString("recompute-from"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
