package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database    DatabaseConfig
	Redis       RedisConfig
	Server      ServerConfig
	Judge       JudgeConfig
	Matchmaking MatchmakingConfig
	Logging     LoggingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	HTTPPort string
}

type JudgeConfig struct {
	Host           string
	APIKey         string
	TimeoutSeconds int
}

type MatchmakingConfig struct {
	PairingIntervalSeconds     int
	ExpirySweepIntervalSeconds int
	MatchDurationMinutes       int
}

type LoggingConfig struct {
	Level string
}

func LoadConfig() *Config {
	config, _ := Load()
	return config
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "codeclash"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "codeclash"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			HTTPPort: getEnv("HTTP_PORT", "8080"),
		},
		Judge: JudgeConfig{
			Host:           getEnv("JUDGE_HOST", "judge0-ce.p.rapidapi.com"),
			APIKey:         getEnv("JUDGE_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("JUDGE_TIMEOUT_SECONDS", 30),
		},
		Matchmaking: MatchmakingConfig{
			PairingIntervalSeconds:     getEnvAsInt("PAIRING_INTERVAL_SECONDS", 5),
			ExpirySweepIntervalSeconds: getEnvAsInt("EXPIRY_SWEEP_INTERVAL_SECONDS", 60),
			MatchDurationMinutes:       getEnvAsInt("MATCH_DURATION_MINUTES", 15),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
