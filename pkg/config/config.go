// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"time"
)

// DB holds the relational store connection settings.
type DB struct {
	Url string `envconfig:"URL"`
}

// Stripe holds the remote payment API credentials.
type Stripe struct {
	ApiKey        string `envconfig:"API_KEY"`
	SigningSecret string `envconfig:"SIGNING_SECRET"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Host string `envconfig:"HOST" default:""`
	Port int    `envconfig:"PORT" default:"8080"`
}

// Sync controls the periodic bulk sync. A zero interval disables it.
type Sync struct {
	Interval time.Duration `envconfig:"INTERVAL" default:"0"`
}

// Log holds logger settings.
type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[payouts]"`
}

// App is the root configuration.
type App struct {
	Env    string `envconfig:"APP_ENV" default:"development"`
	DB     DB     `envconfig:"DB"`
	Stripe Stripe `envconfig:"STRIPE"`
	Server Server `envconfig:"SERVER"`
	Sync   Sync   `envconfig:"SYNC"`
	Log    Log    `envconfig:"LOG"`
}
