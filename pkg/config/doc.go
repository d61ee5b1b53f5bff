// Package config loads application configuration from environment
// variables, optionally seeded from .env files. It wraps
// github.com/joho/godotenv and github.com/caarlos0/env/v11 behind a small
// API:
//
//	config.MustLoadEnv()
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
package config
