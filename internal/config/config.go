// Package config loads the persisted Configuration from
// ~/.<appdir>/config.json, applies the OPENAI_API_BASE_URL /
// OPENAI_BASE_URL environment override, and validates the informational
// version field against the range this build supports. Grounded on
// cmd/gocontext/main.go's env-var pattern, enriched with
// perbu-minirag's use of joho/godotenv for local .env overrides and the
// Masterminds/semver import (previously used for a SQL schema version,
// repurposed here for the config's version field).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"

	"github.com/corvine/flatindex/pkg/model"
)

// SupportedVersionRange is the semver constraint this build's config
// schema satisfies. A version outside this range is logged as a warning,
// not a hard failure.
const SupportedVersionRange = ">=1.0.0 <2.0.0"

// Dir returns ~/.<appdir>, creating it if necessary.
func Dir(appdir string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: resolve home directory: %v", model.ErrConfig, err)
	}
	dir := filepath.Join(home, "."+appdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", model.ErrConfig, dir, err)
	}
	return dir, nil
}

// Load reads config.json from dir, applies environment overrides, and
// checks the version gate. A missing file is not an error: Load returns
// an empty Configuration so the caller can still proceed with defaults
// and environment variables (recovery path: "regenerate
// defaults for missing scalars").
func Load(dir string) (model.Configuration, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	path := filepath.Join(dir, "config.json")
	var cfg model.Configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("%w: read %s: %v", model.ErrConfig, path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", model.ErrConfig, path, err)
	}

	checkVersionGate(cfg.Version)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *model.Configuration) {
	if v := os.Getenv("OPENAI_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
		return
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
}

func checkVersionGate(version string) {
	if version == "" {
		return
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return
	}
	constraint, err := semver.NewConstraint(SupportedVersionRange)
	if err != nil {
		return
	}
	if !constraint.Check(v) {
		fmt.Fprintf(os.Stderr, "config: version %s is outside supported range %s, proceeding with defaults for any affected field\n", version, SupportedVersionRange)
	}
}
