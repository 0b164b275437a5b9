package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
// TELEGRAM_TOKEN doubles as the HMAC secret source for the web login check.
type Config struct {
	BotToken    string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	MongoURI    string `envconfig:"MONGO_URI" required:"true"`
	GroqAPIKey  string `envconfig:"GROQ_API_KEY"` // optional; empty disables AI chat
	BotUsername string `envconfig:"BOT_USERNAME" default:"ToBeControl_bot"`
	DBName      string `envconfig:"DB_NAME" default:"tbc_bot_db"`
	Timezone    string `envconfig:"TZ_NAME" default:"Asia/Jakarta"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":5000"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
