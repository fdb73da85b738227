package config

import (
	"fmt"
	"io/ioutil"

	"github.com/Luismorlan/pow_ledger/utils"
	"gopkg.in/yaml.v2"
)

// This is the global app config for the ledger.
type AppConfig struct {
	// How many leading 0s to form a valid hash.
	DIFFICULTY int `yaml:"difficulty"`
	// How many goroutines search the nonce space together. 0 or 1 mines on
	// the calling goroutine.
	MINING_WORKERS int `yaml:"mining_workers"`
	// Mine the genesis block too. Off by default: the genesis block is exempt
	// from proof of work and from validation.
	MINE_GENESIS bool `yaml:"mine_genesis"`
	// Where the demo and the render command write their output.
	OUTPUT_DIR string `yaml:"output_dir"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		DIFFICULTY:     4,
		MINING_WORKERS: 1,
		OUTPUT_DIR:     "/tmp",
	}
}

// Validate rejects a config the miner cannot honor.
func (c AppConfig) Validate() error {
	if err := utils.CheckDifficulty(c.DIFFICULTY); err != nil {
		return err
	}
	if c.MINING_WORKERS < 0 {
		return fmt.Errorf("mining_workers must be non-negative, got %d", c.MINING_WORKERS)
	}
	return nil
}

// ParseAppConfig reads a YAML config on top of the defaults. Keys missing in
// the file keep their default value.
func ParseAppConfig(path string) (AppConfig, error) {
	c := DefaultAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return c, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
