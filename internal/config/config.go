package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment after godotenv has loaded .env.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"campuspool"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://redis:6379"`

	// AMQPURL is optional; when empty the RabbitMQ notifier is skipped.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"campuspool.events"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
