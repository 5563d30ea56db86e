// Package config loads the bot's credentials from the environment and its
// connection settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

// Env holds the required process environment.
type Env struct {
	BotUsername    string `env:"BOT_USERNAME,required,notEmpty"`
	BotPassword    string `env:"BOT_PASSWORD,required,notEmpty"`
	TargetUsername string `env:"TARGET_USERNAME,required,notEmpty"`
}

// LoadEnv reads .env if present, then parses the process environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()
	return ParseEnv()
}

func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

type Settings struct {
	ServerAddr   string        `yaml:"server_addr"`
	WSPath       string        `yaml:"ws_path"`
	AuthProvider string        `yaml:"auth_provider"`
	TickRateHz   int           `yaml:"tick_rate_hz"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`

	Character CharacterSettings `yaml:"character"`
}

type CharacterSettings struct {
	Name string        `yaml:"name"`
	Body protocol.Body `yaml:"body"`
}

func Defaults() Settings {
	return Settings{
		ServerAddr:   "server.veloren.net:14004",
		WSPath:       "/v1/ws",
		AuthProvider: "https://auth.veloren.net",
		TickRateHz:   16,
		DialTimeout:  10 * time.Second,
		Character: CharacterSettings{
			Name: "Inventory Character",
			Body: protocol.Body{
				Species:   "DRAUGR",
				BodyType:  "FEMALE",
				HairStyle: 0,
				Beard:     1,
				Eyes:      0,
				Accessory: 1,
				HairColor: 0,
				Skin:      0,
				EyeColor:  0,
			},
		},
	}
}

// LoadSettings overlays the YAML file at path onto Defaults. A missing file
// yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if s.TickRateHz <= 0 {
		return s, fmt.Errorf("%s: tick_rate_hz must be positive", path)
	}
	if s.ServerAddr == "" {
		return s, fmt.Errorf("%s: server_addr is required", path)
	}
	return s, nil
}

// URL is the websocket endpoint of the world server.
func (s Settings) URL() string {
	return "ws://" + s.ServerAddr + s.WSPath
}
