package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Database, cache and object store configuration
//   - http.go: HTTP server configuration
//   - services.go: Service mode and worker configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, etc.)
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres    DBConfig          `envPrefix:"DB_"`
	Redis       RedisConfig       `envPrefix:"REDIS_"`
	ObjectStore ObjectStoreConfig `envPrefix:"OBJECT_STORE_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Services is a comma-delimited list of enabled services.
	// Valid values: http, import-parser, import-committer, import-sync
	Services string `env:"SERVICES" envDefault:"http"`

	// Worker configuration
	Parser    ParserConfig
	Committer CommitterConfig
	Sync      SyncConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Parser.Sanitize()
	c.Committer.Sanitize()
	c.Sync.Sanitize()
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	return c.serviceEnabled(ServiceModeHTTP)
}

// IsParserEnabled returns true if the import parser service is enabled.
func (c *AppConfig) IsParserEnabled() bool {
	return c.serviceEnabled(ServiceModeParser)
}

// IsCommitterEnabled returns true if the import committer service is enabled.
func (c *AppConfig) IsCommitterEnabled() bool {
	return c.serviceEnabled(ServiceModeCommitter)
}

// IsSyncEnabled returns true if the import sync service is enabled.
func (c *AppConfig) IsSyncEnabled() bool {
	return c.serviceEnabled(ServiceModeSync)
}

func (c *AppConfig) serviceEnabled(mode ServiceMode) bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[mode]
}
