package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SMARTLIB_[SECTION]_[KEY] (e.g., SMARTLIB_LOG_LEVEL).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Facility.Start, "SMARTLIB_FACILITY_START")
	setEnvString(&cfg.Logging.Level, "SMARTLIB_LOG_LEVEL")
	setEnvString(&cfg.Logging.File, "SMARTLIB_LOG_FILE")
	setEnvInt(&cfg.Inventory.DefaultCapacity, "SMARTLIB_CAPACITY_DEFAULT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.TrimSpace(val)
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			slog.Warn("ignoring env override", "key", key, "value", val, "error", err)
			return
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = i
	}
}
