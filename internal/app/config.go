package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from environment
// variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	APIURL      string        `default:"http://localhost:8000" usage:"Base URL of the store API" flag:"api-url"`
	TokenDir    string        `default:"" usage:"Directory for the persisted session token (defaults to the user config dir)" flag:"token-dir"`
	PageSize    int           `default:"6" usage:"Catalog page size" flag:"page-size"`
	Quiet       time.Duration `default:"300ms" usage:"Debounce quiet period for filter changes" flag:"quiet"`
	HTTPTimeout time.Duration `default:"10s" usage:"Per-request HTTP timeout" flag:"http-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// applyPlatformDefaults maps conventional environment variables to the
// SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if v := os.Getenv("API_URL"); v != "" && c.APIURL == "http://localhost:8000" {
		c.APIURL = v
	}
}
