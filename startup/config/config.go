package config

import "os"

type Config struct {
	Port           string
	EstatelyDB     string
	EstatelyDBPort string
	RedisHost      string
	RedisPort      string
	JaegerAddress  string
}

func NewConfig() *Config {
	return &Config{
		Port:           os.Getenv("ESTATELY_SERVICE_PORT"),
		EstatelyDB:     os.Getenv("ESTATELY_DB_HOST"),
		EstatelyDBPort: os.Getenv("ESTATELY_DB_PORT"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      os.Getenv("REDIS_PORT"),
		JaegerAddress:  os.Getenv("JAEGER_ADDRESS"),
	}
}
