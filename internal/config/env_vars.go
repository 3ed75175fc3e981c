package config

import "strings"

type EnvVars struct {
	AppName      string `env:"APP_NAME" envDefault:"Admin Console"`
	Env          string `env:"ENV" envDefault:"DEV"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.LogLevel)
}

// GetOTLPEndpoint returns the OTLP/HTTP collector endpoint; empty disables tracing.
func (e EnvVars) GetOTLPEndpoint() string {
	return e.OTLPEndpoint
}
