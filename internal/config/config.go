package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"strconv"
	"time"
	"wafblock/internal/endpoint"
	"wafblock/internal/firewall"
)

const (
	DefaultPath    = ".wafblock.yml"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	// Region is used for REGIONAL lists when no region is given on the command line.
	Region string `yaml:"region"`

	// Profile selects a named profile from the shared AWS config files.
	Profile string `yaml:"profile"`

	LogMode     string        `yaml:"logMode" validate:"oneof=production development"`
	MaxAttempts int           `yaml:"maxAttempts" validate:"min=1,max=10"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
}

func Default() Config {
	return Config{
		Region:      endpoint.DefaultRegion,
		LogMode:     "production",
		MaxAttempts: firewall.DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
	}
}

// Load builds the configuration from defaults, the YAML file at path, a .env
// file in the working directory and WAFBLOCK_* environment variables, in that
// order. A missing file at DefaultPath is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		path = DefaultPath
	}

	value, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(value, &c); err != nil {
			return c, errors.Wrapf(err, "parse %s", path)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return c, errors.Wrapf(err, "read %s", path)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, errors.Wrap(err, "load .env")
	}

	if err := c.applyEnv(); err != nil {
		return c, err
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var vErrors validator.ValidationErrors
		if errors.As(err, &vErrors) && len(vErrors) > 0 {
			return errors.Errorf("invalid configuration value for %s", vErrors[0].Field())
		}
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("WAFBLOCK_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("WAFBLOCK_PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv("WAFBLOCK_LOG_MODE"); v != "" {
		c.LogMode = v
	}
	if v := os.Getenv("WAFBLOCK_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "WAFBLOCK_MAX_ATTEMPTS")
		}
		c.MaxAttempts = n
	}
	if v := os.Getenv("WAFBLOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "WAFBLOCK_TIMEOUT")
		}
		c.Timeout = d
	}
	return nil
}
