package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"127.0.0.1:8080"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
}

type DBConfig struct {
	Driver  string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"` // sqlite | postgres
	Address string `yaml:"address" env:"DB_ADDRESS" env-default:"devault.db"`
}

type Config struct {
	LogLevel string     `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	HTTP     HTTPConfig `yaml:"http"`
	DB       DBConfig   `yaml:"db"`
}

func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load reads configPath and falls back to the environment alone when the
// path is empty or the file does not exist.
func Load(configPath string) (Config, error) {
	var cfg Config

	// если путь пустой - просто env
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	// пробуем файл, если его нет - env
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return Config{}, fmt.Errorf("cannot read env: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
	}

	return cfg, nil
}
