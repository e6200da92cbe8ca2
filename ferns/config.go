package ferns

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// Config は Random Ferns の設定
type Config struct {
	// GroupSize は1つのファーンに含める属性数（最後のファーンはこれより小さくなり得る）
	GroupSize int `yaml:"group_size" json:"group_size"`
	// Seed は属性シャッフルの乱数シード
	Seed int64 `yaml:"seed" json:"seed"`
}

// DefaultConfig returns group size 1 and seed 1.
func DefaultConfig() Config {
	return Config{GroupSize: 1, Seed: 1}
}

// Validate reports a configuration error when the group size is below 1.
func (c Config) Validate() error {
	if c.GroupSize < 1 {
		return errors.NewValidationError("group_size", "must be at least 1", c.GroupSize)
	}
	return nil
}

// ParseConfig decodes a YAML document over DefaultConfig and validates it.
//
// 例:
//
//	group_size: 3
//	seed: 42
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "ferns: invalid config"), errors.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "ferns: reading config %s", path)
	}
	return ParseConfig(data)
}
