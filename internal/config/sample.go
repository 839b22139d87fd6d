package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteSample when path is already taken.
var ErrConfigExists = errors.New("config file already exists")

// WriteSample writes a starter configuration to path. It never overwrites.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}

	raw, err := yaml.Marshal(SampleConfig())
	if err != nil {
		return fmt.Errorf("marshal sample config: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig is the template written by WriteSample.
func SampleConfig() Config {
	cfg := defaultConfig()
	target := 10000.0
	cfg.Items = []ItemConfig{
		{
			ID:            "item001",
			Name:          "Product name",
			URL:           "https://shop.example.com/products/1",
			TargetPrice:   &target,
			PriceSelector: ".price",
			StockKeyword:  "품절",
		},
	}
	return cfg
}
