package analyzer

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls asset recognition and session boundary detection.
type Config struct {
	// KnownAssets is the allow-list of base asset tickers.
	KnownAssets []string `yaml:"known_assets" json:"known_assets" jsonschema:"title=Known Assets,description=Allow-list of base asset tickers" validate:"required,min=1"`
	// QuoteSuffixes are the symbol suffixes stripped to recover the base
	// asset, tried in order.
	QuoteSuffixes []string `yaml:"quote_suffixes" json:"quote_suffixes" jsonschema:"title=Quote Suffixes,description=Symbol suffixes stripped to recover the base asset" validate:"required,min=1"`
	// StartMarker is the lifecycle message substring that opens a session.
	StartMarker string `yaml:"start_marker" json:"start_marker" jsonschema:"title=Start Marker,description=Lifecycle message substring that opens a session" validate:"required"`
	// StopMarkers are the lifecycle message substrings that close a session.
	StopMarkers []string `yaml:"stop_markers" json:"stop_markers" jsonschema:"title=Stop Markers,description=Lifecycle message substrings that close a session" validate:"required,min=1"`
}

// DefaultConfig returns the configuration matching the source executor's
// vocabulary.
func DefaultConfig() Config {
	return Config{
		KnownAssets:   []string{"BTC", "ETH", "SOL", "BNB", "XRP", "DOGE", "ADA"},
		QuoteSuffixes: []string{"USDT", "USDC", "BUSD"},
		StartMarker:   "start_strategy",
		StopMarkers:   []string{"stop_strategy", "StrategyExecutorTask::run completed"},
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid analyzer config", err)
	}

	return nil
}

// ParseConfig parses a YAML configuration string into a Config.
func ParseConfig(yamlConfig string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(yamlConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigParseFailed, "failed to parse analyzer config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeConfigReadFailed, err, "failed to read config from %s", path)
	}

	return ParseConfig(string(data))
}
