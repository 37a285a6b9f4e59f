package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"thalamusd/internal/common/fsutil"
)

// Settings are the process-level knobs, read from THALAMUS_* environment
// variables. Command-line flags may override individual fields after loading.
type Settings struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"console"`
	CacheDir     string        `envconfig:"CACHE_DIR" default:"~/.cache/thalamusd"`
	CacheMaxGB   float64       `envconfig:"CACHE_MAX_GB" default:"10"`
	DeployConfig string        `envconfig:"DEPLOY_CONFIG"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"5m"`
	Devices      string        `envconfig:"DEVICES"`
	LazyLoad     bool          `envconfig:"LAZY_LOAD"`
	APIKey       string        `envconfig:"API_KEY"`
	CORS         bool          `envconfig:"CORS" default:"true"`

	// HFToken deliberately follows the hub's own convention instead of the
	// THALAMUS_ prefix.
	HFToken string `ignored:"true"`
}

// LoadSettings reads Settings from the environment and expands the cache dir.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("thalamus", &s); err != nil {
		return s, fmt.Errorf("read environment: %w", err)
	}
	dir, err := fsutil.ExpandHome(s.CacheDir)
	if err != nil {
		return s, err
	}
	s.CacheDir = dir
	s.HFToken = os.Getenv(EnvHubToken)
	return s, nil
}
