package config

import "time"

type CacheConfig interface {
	GetQueryStaleTime() time.Duration
	GetLookupStaleTime() time.Duration
	GetQueryCacheSize() int
}

type Cache struct {
	StaleTime       time.Duration `env:"QUERY_STALE_TIME" envDefault:"5m"`
	LookupStaleTime time.Duration `env:"QUERY_LOOKUP_STALE_TIME" envDefault:"10m"`
	Size            int           `env:"QUERY_CACHE_SIZE" envDefault:"256"`
}

var _ CacheConfig = Cache{}

func (c Cache) GetQueryStaleTime() time.Duration {
	if c.StaleTime <= 0 {
		return 5 * time.Minute
	}
	return c.StaleTime
}

// GetLookupStaleTime applies to slow-moving lookups such as the category tree and options
func (c Cache) GetLookupStaleTime() time.Duration {
	if c.LookupStaleTime <= 0 {
		return 10 * time.Minute
	}
	return c.LookupStaleTime
}

func (c Cache) GetQueryCacheSize() int {
	if c.Size <= 0 {
		return 256
	}
	return c.Size
}
