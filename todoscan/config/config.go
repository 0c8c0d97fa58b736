package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DBConfig struct {
	Driver  string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	Address string `yaml:"address" env:"DB_ADDRESS" env-default:"devault.db"`
}

type Config struct {
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	DB       DBConfig      `yaml:"db"`
	DueIn    time.Duration `yaml:"scan_due_in" env:"SCAN_DUE_IN" env-default:"168h"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	// если путь пустой - просто env
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// пробуем файл, если его нет - env
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
