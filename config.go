package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen      string      `yaml:"listen"`
	Debug       bool        `yaml:"debug"`
	Seed        int64       `yaml:"seed"`
	MaxAttempts int         `yaml:"maxAttempts"`
	MinPlayers  int         `yaml:"minPlayers"`
	Login       LoginConfig `yaml:"login"`
	EndDate     time.Time   `yaml:"endDate"`
}

type LoginConfig struct {
	Id          string      `yaml:"id"`
	Token       string      `yaml:"token"`
	RedirectUrl string      `yaml:"redirectUrl"`
	BaseUrl     string      `yaml:"baseUrl"`
	Guild       GuildConfig `yaml:"guild"`
}

type GuildConfig struct {
	Id    string   `yaml:"id"`
	Roles []string `yaml:"roles"`
}

const (
	defaultMaxAttempts = 100000
	defaultMinPlayers  = 3
)

// decodeConfig reads a yaml config and fills in defaults for the shuffle
// settings left out of it.
func decodeConfig(r io.Reader) (Config, error) {
	conf := Config{
		MaxAttempts: defaultMaxAttempts,
		MinPlayers:  defaultMinPlayers,
	}
	if err := yaml.NewDecoder(r).Decode(&conf); err != nil {
		return Config{}, err
	}
	return conf, conf.Validate()
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("maxAttempts must not be negative: %d", c.MaxAttempts)
	}
	// a draw between two players always pairs them with each other
	if c.MinPlayers < 2 {
		return fmt.Errorf("minPlayers must be at least 2: %d", c.MinPlayers)
	}
	return nil
}
