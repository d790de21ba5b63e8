package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio via variables de entorno.
type Config struct {
	HTTPPort           string `env:"HTTP_PORT" envDefault:"8080"`
	UploadDir          string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadBytes     int64  `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`
	RulesetPath        string `env:"RULESET_PATH" envDefault:"ruleset.yaml"`
	OCREnabled         bool   `env:"OCR_ENABLED" envDefault:"false"`
	OCRLanguage        string `env:"OCR_LANGUAGE" envDefault:"eng"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
