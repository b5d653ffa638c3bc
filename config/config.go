package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Queue        Queue
	GeminiApiKey string
	// DurabilityPolicy is "optimistic_queue" (default) or "fail_closed".
	DurabilityPolicy string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Queue struct {
	// Dir is the directory for the local durable submission queue.
	// Empty means in-memory (no durability across restarts).
	Dir string
	// MaxEntries bounds queue growth; oldest entries are dropped beyond it.
	MaxEntries int
	// RetryDelaySeconds is the idle delay before the once-per-start drain.
	RetryDelaySeconds int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("QUEUE_MAX_ENTRIES", 1000)
	viper.SetDefault("QUEUE_RETRY_DELAY_SECONDS", 5)
	viper.SetDefault("DURABILITY_POLICY", "optimistic_queue")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Queue.Dir = viper.GetString("QUEUE_DIR")
	config.Queue.MaxEntries = viper.GetInt("QUEUE_MAX_ENTRIES")
	config.Queue.RetryDelaySeconds = viper.GetInt("QUEUE_RETRY_DELAY_SECONDS")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.DurabilityPolicy = viper.GetString("DURABILITY_POLICY")

	log.Info().Str("port", config.Server.Port).Str("queueDir", config.Queue.Dir).
		Str("durabilityPolicy", config.DurabilityPolicy).Msg("Config loaded")
	return &config, nil
}
