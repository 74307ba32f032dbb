// Package config loads process configuration from config/app.json and a
// .env file, with built-in defaults for everything. Missing files are
// fine — the simulator runs out of the box.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv       = "local"
	defaultDataDir      = "data"
	defaultSnapshotFile = "bazaar.json"
	defaultSeedDemo     = "true"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":       defaultAppEnv,
		"DATA_DIR":      defaultDataDir,
		"SNAPSHOT_FILE": defaultSnapshotFile,
		"SEED_DEMO":     defaultSeedDemo,
	}
}

// Load reads configuration once. Later calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// AppEnv returns the runtime environment name ("local", "production", …).
func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// DataDir is the directory snapshots are written to.
func DataDir() string {
	_ = Load()
	return get("DATA_DIR", defaultDataDir)
}

// SnapshotFile is the snapshot filename inside DataDir.
func SnapshotFile() string {
	_ = Load()
	return get("SNAPSHOT_FILE", defaultSnapshotFile)
}

// SeedDemo reports whether demo accounts and products are created when
// the store starts empty.
func SeedDemo() bool {
	_ = Load()
	return get("SEED_DEMO", defaultSeedDemo) != "false"
}

// Get reads any config key by name with a fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		return err
	}

	mu.Lock()
	values = loaded
	mu.Unlock()
	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}
	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()
	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}
	return fallback
}
