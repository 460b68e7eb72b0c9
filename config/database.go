package config

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"drivelot"`
	Password string `env:"PASSWORD" envDefault:"drivelot"`
	Name     string `env:"NAME"     envDefault:"drivelot"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the offline listing snapshot cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
	// Enabled toggles the cache entirely; the pipeline degrades gracefully
	// without it.
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

// ObjectStoreConfig contains the MinIO-compatible upload bucket configuration.
type ObjectStoreConfig struct {
	Endpoint  string `env:"ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"drivelot"`
	SecretKey string `env:"SECRET_KEY" envDefault:"drivelot-secret"`
	Bucket    string `env:"BUCKET"     envDefault:"inventory-imports"`
	UseSSL    bool   `env:"USE_SSL"    envDefault:"false"`
}
