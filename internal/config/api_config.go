package config

import "strings"

type APIConfig interface {
	GetAPIBaseURL() string
}

type API struct {
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the REST base URL without a trailing slash.
func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(a.BaseURL, "/")
}
