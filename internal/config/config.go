package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		SigningKey      string `yaml:"signing_key"`
		AccessTTLMin    int    `yaml:"access_ttl_min"`
		RefreshTTLHours int    `yaml:"refresh_ttl_hours"`
	} `yaml:"auth"`
	Storage struct {
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
	} `yaml:"storage"`
	Sweeps struct {
		OverdueHours     int `yaml:"overdue_hours"`
		ReconcileMinutes int `yaml:"reconcile_minutes"`
	} `yaml:"sweeps"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	// secrets from the environment win over the file
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("JWT_SIGNING_KEY"); v != "" {
		cfg.Auth.SigningKey = v
	}

	if cfg.Auth.AccessTTLMin == 0 {
		cfg.Auth.AccessTTLMin = 15
	}
	if cfg.Auth.RefreshTTLHours == 0 {
		cfg.Auth.RefreshTTLHours = 24 * 30
	}
	if cfg.Sweeps.OverdueHours == 0 {
		cfg.Sweeps.OverdueHours = 24
	}
	if cfg.Sweeps.ReconcileMinutes == 0 {
		cfg.Sweeps.ReconcileMinutes = 60
	}
	return cfg
}
