// Package config collects streamlink's environment-variable configuration
// into a single typed struct, built once at process startup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-derived setting for the streaming edge and
// its supporting components.
type Config struct {
	// Port is the TCP bind port for the HTTP edge.
	Port string
	// PublicBaseURL, if set, is used only to print self-referential links
	// from streamlinkctl; the server itself never parses or dereferences it.
	PublicBaseURL string

	// BlockSizeBytes is the fixed block size (B) the upstream store reads
	// in. Canonical value is 1 MiB; must stay constant for a process.
	BlockSizeBytes int64
	// MaxWorkersPerRequest is W_max, the process-wide cap on concurrent C1
	// workers spawned per streaming request.
	MaxWorkersPerRequest int
	// MinBatchBlocks/MaxBatchBlocks bound K, blocks per worker batch.
	MinBatchBlocks int
	MaxBatchBlocks int
	// MaxBufferedBlocks is M, the hard cap on ready-but-unconsumed blocks.
	MaxBufferedBlocks int

	// LinkTokenLength is the length of generated link tokens, clamped to
	// [8, 16].
	LinkTokenLength int
	// LinkTTL is how long a registered link stays servable before it
	// expires. <= 0 means links never expire on their own.
	LinkTTL time.Duration
	// EvictionSweepInterval is how often the link registry sweeps for
	// expired tokens; must be <= 60s.
	EvictionSweepInterval time.Duration

	// MetricsEnabled toggles the /metrics endpoint.
	MetricsEnabled bool

	// AllowedOrigins configures CORS; nil means no origins are allowed, the
	// same polarity as the teacher's DMR_ORIGINS.
	AllowedOrigins []string

	// MaxBytesPerSecond, when > 0, caps sustained per-stream throughput via
	// a token-bucket limiter applied at C3's periodic drain points.
	MaxBytesPerSecond int

	// HMACSecret, when set, requires streaming requests to carry a valid
	// sig/exp query pair in addition to a live token.
	HMACSecret string
}

// FromEnv builds a Config from the process environment, applying the
// spec's canonical defaults for anything unset.
func FromEnv() Config {
	c := Config{
		Port:                  getenvDefault("PORT", "8080"),
		PublicBaseURL:         os.Getenv("PUBLIC_BASE_URL"),
		BlockSizeBytes:        getenvInt64Default("BLOCK_SIZE_BYTES", 1<<20),
		MaxWorkersPerRequest:  getenvIntDefault("MAX_WORKERS_PER_REQUEST", 4),
		MinBatchBlocks:        getenvIntDefault("MIN_BATCH_BLOCKS", 2),
		MaxBatchBlocks:        getenvIntDefault("MAX_BATCH_BLOCKS", 6),
		MaxBufferedBlocks:     getenvIntDefault("MAX_BUFFERED_BLOCKS", 16),
		LinkTokenLength:       clamp(getenvIntDefault("LINK_TOKEN_LENGTH", 10), 8, 16),
		LinkTTL:               getenvDurationDefault("LINK_TTL", time.Hour),
		EvictionSweepInterval: getenvDurationDefault("EVICTION_SWEEP_INTERVAL", 30*time.Second),
		MetricsEnabled:        os.Getenv("DISABLE_METRICS") != "1",
		AllowedOrigins:        getenvOrigins("STREAMLINK_ORIGINS"),
		MaxBytesPerSecond:     getenvIntDefault("STREAMLINK_MAX_BYTES_PER_SEC", 0),
		HMACSecret:            os.Getenv("STREAMLINK_SIGNING_SECRET"),
	}
	if c.EvictionSweepInterval > 60*time.Second {
		c.EvictionSweepInterval = 60 * time.Second
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvInt64Default(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getenvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// getenvOrigins mirrors the teacher's DMR_ORIGINS parsing: unset means no
// origins are allowed (nil), a comma-separated list is trimmed and filtered.
func getenvOrigins(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return nil
	}
	return origins
}
