package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio de scoring.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// Sin DATABASE_URL la API solo puntua de forma anonima.
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"persona-engine"`

	// Vacío usa el cuestionario embebido.
	QuestionnairePath string        `env:"QUESTIONNAIRE_PATH"`
	ScoreRateLimit    int           `env:"SCORE_RATE_LIMIT" envDefault:"10"`
	ScoreRateWindow   time.Duration `env:"SCORE_RATE_WINDOW" envDefault:"1m"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
