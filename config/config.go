package config

import (
    "log"
    "os"
)

type Config struct {
    Port               string
    JWTSecret          string
    UsersFile          string
    StaticDir          string
    ValidateCollisions bool
}

func LoadConfig() *Config {
    return &Config{
        Port:               getEnv("PORT", "3000"),
        JWTSecret:          getEnv("JWT_SECRET", "secret"),
        UsersFile:          getEnv("USERS_FILE", "users.json"),
        StaticDir:          getEnv("STATIC_DIR", "public"),
        ValidateCollisions: getEnv("VALIDATE_COLLISIONS", "false") == "true",
    }
}

// getEnv reads an environment variable and returns its value or a default value
func getEnv(key, defaultValue string) string {
    value, exists := os.LookupEnv(key)
    if !exists {
        value = defaultValue
        log.Printf("Environment variable %s not set, using default value: %s", key, defaultValue)
    }
    return value
}
