package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"POS_BACKEND_URL" env-default:"http://localhost:5000/api"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"POS_REQUEST_TIMEOUT" env-default:"10s"`
}

type Checkout struct {
	// SubmitTimeout bounds a single POST /orders attempt; on expiry the
	// attempt is reported as failed and the cart is preserved for retry.
	SubmitTimeout     time.Duration `yaml:"submit_timeout" env:"POS_CHECKOUT_TIMEOUT" env-default:"15s"`
	DefaultIncludeTax bool          `yaml:"default_include_tax" env:"POS_INCLUDE_TAX" env-default:"true"`
}

type Metrics struct {
	Addr string `yaml:"address" env:"POS_METRICS_ADDR" env-default:""`
}

type Display struct {
	CurrencySymbol string `yaml:"currency_symbol" env:"POS_CURRENCY" env-default:"Rs"`
}

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"production"`
	Backend  Backend  `yaml:"backend"`
	Checkout Checkout `yaml:"checkout"`
	Metrics  Metrics  `yaml:"metrics"`
	Display  Display  `yaml:"display"`
}

func LoadFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv builds the config from environment variables alone; a
// terminal deployment does not require a config file.
func LoadFromEnv() (*Config, error) {

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("can not read environment config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags
	}

	var cfg *Config
	var err error

	if configPath == "" {
		cfg, err = LoadFromEnv()
	} else {
		cfg, err = LoadFromPath(configPath)
	}

	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}

func (b *Backend) Endpoint(path string) string {
	return fmt.Sprintf("%s%s", b.BaseURL, path)
}
