package api

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CollisionPolicy tells the vocabulary builder what to do when an appended special token is already one of
// the tokens of the corpus.
type CollisionPolicy string

const (
	// CollisionFail makes the build fail.
	CollisionFail CollisionPolicy = "fail"

	// CollisionOverwrite keeps the last assignment (the special token's id) and drops the natural one.
	CollisionOverwrite CollisionPolicy = "overwrite"
)

// Config struct to hold a tokenizer configuration file contents (YAML or JSON, the latter being parsed as YAML).
//
// The extra field ConfigFile holds the path to the file with the full config.
type Config struct {
	ConfigFile     string `yaml:"-"`
	TokenizerClass string `yaml:"tokenizer_class"`

	// SplitPattern is the regular expression used to split text in tokens. Empty means the default one.
	SplitPattern string `yaml:"split_pattern"`

	AddSpecialTokens   bool            `yaml:"add_special_tokens"`
	EosToken           string          `yaml:"eos_token"`
	UnkToken           string          `yaml:"unk_token"`
	OnSpecialCollision CollisionPolicy `yaml:"on_special_collision"`
}

// DefaultConfig returns the configuration of the strict tokenizer, without special tokens.
func DefaultConfig() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.TokenizerClass == "" {
		c.TokenizerClass = "SimpleTokenizerV1"
	}
	if c.EosToken == "" {
		c.EosToken = DefaultEndOfTextToken
	}
	if c.UnkToken == "" {
		c.UnkToken = DefaultUnknownToken
	}
	if c.OnSpecialCollision == "" {
		c.OnSpecialCollision = CollisionFail
	}
}

// Validate checks values that can't be defaulted.
func (c *Config) Validate() error {
	switch c.OnSpecialCollision {
	case CollisionFail, CollisionOverwrite:
	default:
		return errors.Errorf("invalid on_special_collision %q, valid values are %q or %q",
			c.OnSpecialCollision, CollisionFail, CollisionOverwrite)
	}
	return nil
}

// ParseConfigFile parses the given file (YAML or JSON) into a Config structure.
func ParseConfigFile(filePath string) (*Config, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %q", filePath)
	}
	config, err := ParseConfigContent(content)
	if err != nil {
		return nil, errors.WithMessagef(err, "read from file %q", filePath)
	}
	config.ConfigFile = filePath
	return config, nil
}

// ParseConfigContent parses the given YAML or JSON content into a Config structure.
// Fields not set take the values of DefaultConfig.
func ParseConfigContent(content []byte) (*Config, error) {
	config := &Config{}
	err := yaml.Unmarshal(content, config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse tokenizer config content")
	}
	config.setDefaults()
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
