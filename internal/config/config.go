// Package config loads the psychometric engine's recognized startup
// options: a .env file via godotenv, environment variable overrides, and
// an optional checked-in JSON file discovered by walking up from the
// source tree.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every recognized startup option.
type Config struct {
	ResponseHistoryPath   string  `json:"response_history_path"`
	ItemTopicMapPath      string  `json:"item_topic_map_path"`
	NewtonMaxIter         int     `json:"newton_max_iter"`
	NewtonTol             float64 `json:"newton_tol"`
	ExactDPThreshold      int     `json:"exact_dp_threshold"`
	AccuracyWeight        float64 `json:"accuracy_weight"`
	TimeWeight            float64 `json:"time_weight"`
	DefaultDiscrimination float64 `json:"default_discrimination"`
	DefaultGuessing       float64 `json:"default_guessing"`
	AbilityClip           float64 `json:"ability_clip"`

	// StoreDriver/StoreDSN select the item-bank store backend (internal/store).
	StoreDriver string `json:"store_driver"`
	StoreDSN    string `json:"store_dsn"`

	// HTTPAddr is the address cmd/server listens on.
	HTTPAddr string `json:"http_addr"`

	// RecalibrateInterval is the cron spec for the periodic recalibration
	// job (e.g. "@every 1h").
	RecalibrateInterval string `json:"recalibrate_interval"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		NewtonMaxIter:         10,
		NewtonTol:             1e-3,
		ExactDPThreshold:      30,
		AccuracyWeight:        0.6,
		TimeWeight:            0.4,
		DefaultDiscrimination: 1.0,
		DefaultGuessing:       0.25,
		AbilityClip:           3.0,
		StoreDriver:           "sqlite",
		StoreDSN:              "irt_bank.db",
		HTTPAddr:              ":8080",
		RecalibrateInterval:   "@every 1h",
	}
}

// Load builds a Config by starting from Default, loading a .env file if
// present (godotenv.Load is a no-op error when the file is absent), applying
// an optional irt_config.json discovered relative to the project root, and
// finally applying environment variable overrides, in that order.
func Load() Config {
	cfg := Default()

	if err := godotenv.Load(); err != nil {
		log.Printf("[CONFIG] no .env file loaded: %v", err)
	}

	if path, err := findConfigFile(); err == nil {
		if err := applyJSONFile(&cfg, path); err != nil {
			log.Printf("[CONFIG] failed to apply %s: %v", path, err)
		} else {
			log.Printf("[CONFIG] applied overrides from %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg
}

func applyJSONFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewDecoder(f).Decode(cfg)
}

// findConfigFile walks up from the caller's source directory looking for
// irt_config.json.
func findConfigFile() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", os.ErrNotExist
	}
	dir := filepath.Dir(filename)
	for i := 0; i < 10; i++ {
		candidate := filepath.Join(dir, "irt_config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func applyEnv(cfg *Config) {
	setString(&cfg.ResponseHistoryPath, "RESPONSE_HISTORY_PATH")
	setString(&cfg.ItemTopicMapPath, "ITEM_TOPIC_MAP_PATH")
	setInt(&cfg.NewtonMaxIter, "NEWTON_MAX_ITER")
	setFloat(&cfg.NewtonTol, "NEWTON_TOL")
	setInt(&cfg.ExactDPThreshold, "EXACT_DP_THRESHOLD")
	setFloat(&cfg.AccuracyWeight, "ACCURACY_WEIGHT")
	setFloat(&cfg.TimeWeight, "TIME_WEIGHT")
	setFloat(&cfg.DefaultDiscrimination, "DEFAULT_DISCRIMINATION")
	setFloat(&cfg.DefaultGuessing, "DEFAULT_GUESSING")
	setFloat(&cfg.AbilityClip, "ABILITY_CLIP")
	setString(&cfg.StoreDriver, "STORE_DRIVER")
	setString(&cfg.StoreDSN, "STORE_DSN")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.RecalibrateInterval, "RECALIBRATE_INTERVAL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			log.Printf("[CONFIG] ignoring invalid %s=%q: %v", key, v, err)
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		} else {
			log.Printf("[CONFIG] ignoring invalid %s=%q: %v", key, v, err)
		}
	}
}
