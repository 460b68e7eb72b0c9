package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// UploadURLTTL is the lifetime of presigned spreadsheet upload URLs.
	UploadURLTTL time.Duration `env:"HTTP_UPLOAD_URL_TTL" envDefault:"15m"`

	// ShutdownGrace is how long in-flight requests get to finish on shutdown.
	ShutdownGrace time.Duration `env:"HTTP_SHUTDOWN_GRACE" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.UploadURLTTL < time.Minute {
		h.UploadURLTTL = time.Minute
	}
	if h.ShutdownGrace < time.Second {
		h.ShutdownGrace = time.Second
	}
}
