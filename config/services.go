package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeParser runs the spreadsheet parser worker.
	ServiceModeParser ServiceMode = "import-parser"
	// ServiceModeCommitter runs the commit processor worker.
	ServiceModeCommitter ServiceMode = "import-committer"
	// ServiceModeSync runs the post-commit synchronizer worker.
	ServiceModeSync ServiceMode = "import-sync"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeParser,
		ServiceModeCommitter,
		ServiceModeSync,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeParser, ServiceModeCommitter, ServiceModeSync:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, import-parser, import-committer, import-sync)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return services, nil
}

// ParserConfig contains import parser worker configuration.
type ParserConfig struct {
	// Concurrency is the number of worker goroutines.
	Concurrency int `env:"PARSER_CONCURRENCY" envDefault:"2"`

	// JobLease is the claim lease for one parse.
	JobLease time.Duration `env:"PARSER_JOB_LEASE" envDefault:"60s"`

	// MaxUploadAge is how long a job may sit unconfirmed in uploaded before
	// the reaper fails it.
	MaxUploadAge time.Duration `env:"PARSER_MAX_UPLOAD_AGE" envDefault:"24h"`

	// ReapInterval is the staleness reaper tick interval.
	ReapInterval time.Duration `env:"PARSER_REAP_INTERVAL" envDefault:"1h"`
}

// Sanitize applies guardrails to parser configuration values.
func (p *ParserConfig) Sanitize() {
	if p.Concurrency < 1 {
		p.Concurrency = 1
	}
	if p.JobLease < 5*time.Second {
		p.JobLease = 5 * time.Second
	}
	if p.MaxUploadAge < time.Hour {
		p.MaxUploadAge = time.Hour
	}
	if p.ReapInterval < time.Minute {
		p.ReapInterval = time.Minute
	}
}

// CommitterConfig contains commit processor worker configuration.
type CommitterConfig struct {
	// Concurrency is the number of worker goroutines.
	Concurrency int `env:"COMMITTER_CONCURRENCY" envDefault:"2"`

	// JobLease is the claim lease for one commit run. Commits iterate the
	// whole preview, so this is generous; the heartbeat extends it anyway.
	JobLease time.Duration `env:"COMMITTER_JOB_LEASE" envDefault:"5m"`

	// ProgressEvery is the number of rows between progress writes.
	ProgressEvery int `env:"COMMITTER_PROGRESS_EVERY" envDefault:"25"`
}

// Sanitize applies guardrails to committer configuration values.
func (c *CommitterConfig) Sanitize() {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.JobLease < 30*time.Second {
		c.JobLease = 30 * time.Second
	}
	if c.ProgressEvery < 1 {
		c.ProgressEvery = 1
	}
}

// SyncConfig contains post-commit synchronizer worker configuration.
type SyncConfig struct {
	// Concurrency is the number of worker goroutines.
	Concurrency int `env:"SYNC_CONCURRENCY" envDefault:"1"`

	// JobLease is the claim lease for one sync run.
	JobLease time.Duration `env:"SYNC_JOB_LEASE" envDefault:"2m"`

	// SnapshotTTL is the lifetime of the cached offline listing snapshot.
	SnapshotTTL time.Duration `env:"SYNC_SNAPSHOT_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to sync configuration values.
func (s *SyncConfig) Sanitize() {
	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	if s.JobLease < 10*time.Second {
		s.JobLease = 10 * time.Second
	}
}

// ObservabilityConfig contains metrics emission configuration.
type ObservabilityConfig struct {
	// StatsdEnabled toggles metric emission.
	StatsdEnabled bool `env:"STATSD_ENABLED" envDefault:"false"`

	// StatsdAddress is the UDP address of the StatsD-compatible sink.
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:"localhost:8125"`

	// StatsdPrefix is prepended to every metric name.
	StatsdPrefix string `env:"STATSD_PREFIX" envDefault:"inventory_api"`
}
