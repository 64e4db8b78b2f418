package app

import (
	"time"

	"github.com/montanus-wecib/mps-backend/internal/logger"
	"github.com/montanus-wecib/mps-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string
	TokenTTL     time.Duration
	Port         string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTLMinutes := utils.GetEnvAsInt("TOKEN_TTL_MINUTES", 1440, log)
	port := utils.GetEnv("PORT", "8080", log)
	return Config{
		JWTSecretKey: jwtSecretKey,
		TokenTTL:     time.Duration(tokenTTLMinutes) * time.Minute,
		Port:         port,
	}
}
