package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string          `yaml:"env" env:"APP_ENV" env-default:"local"`
	DatabaseUrl string          `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	Server      ServerConfig    `yaml:"rest"`
	JWT         JWTSecret       `yaml:"jwt"`
	Analytics   AnalyticsConfig `yaml:"analytics"`
	DB          DBConfig        `yaml:"db"`
}

type ServerConfig struct {
	Port           string   `yaml:"port" env:"REST_PORT" env-default:"8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"REST_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type JWTSecret struct {
	Secret string `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
}

type AnalyticsConfig struct {
	Workers        int           `yaml:"workers" env:"ANALYTICS_WORKERS" env-default:"4"`
	TextSampleSize int           `yaml:"text_sample_size" env:"ANALYTICS_TEXT_SAMPLE_SIZE" env-default:"20"`
	DefaultRange   string        `yaml:"default_range" env:"ANALYTICS_DEFAULT_RANGE" env-default:"30d"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"ANALYTICS_QUERY_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	MaxConns int32 `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	if path == "" {
		panic("Config file not found in path")
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path; environment variables override it.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var config Config
	log.Printf("Loading config from %s", path)
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &config, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "./config/local.yaml"
	}

	return res
}
