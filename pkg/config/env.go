package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// LoadEnv loads variables from ENV_FILE when it is set, otherwise from
// .env.local when APP_ENV is "local". Variables already in the environment win.
func LoadEnv() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development" // Default to development if not set
		os.Setenv("APP_ENV", appEnv)
	}

	file := os.Getenv("ENV_FILE")
	if file == "" && appEnv == "local" {
		file = ".env.local" // Assumes .env.local exists where the tool is run
	}
	if file == "" {
		logging.Debug().Str("app_env", appEnv).Msg("No env file to load")
		return
	}

	if err := godotenv.Load(file); err != nil {
		logging.Warn().Err(err).Str("file", file).Msg("Env file not loaded, relying on system environment variables")
		return
	}
	logging.Info().Str("file", file).Msg("Loaded env file")
}
