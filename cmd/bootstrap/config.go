package bootstrap

import (
	"stayhub/internal/pkg/config"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		LoadConfig,
	),
)

// LoadConfig reads .env when present, then the environment. Missing .env is
// the normal case in deployed environments.
func LoadConfig() (config.Config, error) {
	_ = godotenv.Load()
	return config.LoadConfig()
}
