// Package config loads the options bag described in spec.md §6 from the
// environment, following the teacher's FromEnv()/getenv-helper style.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheSizes carries the per-payload-type byte budget options
// (cache.<type>.size). Provenance has no backing cache structure in
// this core (provenance tracking is an external collaborator per
// spec.md §1) but the option is still accepted so a deployment's
// config file need not special-case it.
type CacheSizes struct {
	Raster     uint64
	Points     uint64
	Lines      uint64
	Polygons   uint64
	Plots      uint64
	Provenance uint64
}

// CacheCfg is the cache.* slice of the options bag.
type CacheCfg struct {
	Enabled     bool
	Type        string // "local" or "remote"
	Strategy    string // "always" or "never"
	Replacement string // "lru", "lfu", or "fifo"
	Sizes       CacheSizes
}

// IndexServerCfg carries the indexserver.host/indexserver.port options.
// They are loaded but not read by any cache backend: the remote backend
// (Cache.Type == "remote") connects to a Redis address instead and does
// not contact an index endpoint.
type IndexServerCfg struct {
	Host string
	Port int
}

// DQMCfg selects and tunes the scheduler's placement strategy.
type DQMCfg struct {
	Strategy string        // "simple", "dema", or "bema"
	Alpha    float64       // EMA weight for dema/bema
	Window   int           // rolling assignment window size for bema
	Tick     time.Duration // control-loop scheduling interval
}

// WorkerCfg configures the set of RTP worker nodes the scheduler
// dispatches to.
type WorkerCfg struct {
	Nodes   []string // node IDs, fixed order — used by dema/bema warm-up
	Timeout time.Duration
}

// FCGICfg configures the (external) FastCGI frontend's thread pool;
// this core only carries the option through, it never starts an FCGI
// listener itself (spec.md §1 Non-goals: CGI/FastCGI frontends).
type FCGICfg struct {
	Threads int
}

// InvalidationCfg configures the Kafka-backed job-lifecycle event bus
// (internal/dqm/eventbus).
type InvalidationCfg struct {
	Enabled bool
	Topic   string
	Brokers string
	GroupID string
}

type Config struct {
	Addr     string
	LogLevel string

	RedisAddr string

	Cache        CacheCfg
	IndexServer  IndexServerCfg
	DQM          DQMCfg
	Worker       WorkerCfg
	FCGI         FCGICfg
	Invalidation InvalidationCfg
}

func FromEnv() Config {
	return Config{
		Addr:      getenv("ADDR", ":8090"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

		Cache: CacheCfg{
			Enabled:     getbool("CACHE_ENABLED", true),
			Type:        getenv("CACHE_TYPE", "local"),
			Strategy:    getenv("CACHE_STRATEGY", "always"),
			Replacement: getenv("CACHE_REPLACEMENT", "lru"),
			Sizes: CacheSizes{
				Raster:     getuint64("CACHE_RASTER_SIZE", 256<<20),
				Points:     getuint64("CACHE_POINTS_SIZE", 64<<20),
				Lines:      getuint64("CACHE_LINES_SIZE", 64<<20),
				Polygons:   getuint64("CACHE_POLYGONS_SIZE", 64<<20),
				Plots:      getuint64("CACHE_PLOTS_SIZE", 32<<20),
				Provenance: getuint64("CACHE_PROVENANCE_SIZE", 16<<20),
			},
		},

		IndexServer: IndexServerCfg{
			Host: getenv("INDEXSERVER_HOST", "localhost"),
			Port: getint("INDEXSERVER_PORT", 9831),
		},

		DQM: DQMCfg{
			Strategy: getenv("DQM_STRATEGY", "simple"),
			Alpha:    getfloat("DQM_ALPHA", 0.3),
			Window:   getint("DQM_WINDOW", 100),
			Tick:     getduration("DQM_TICK", 100*time.Millisecond),
		},

		Worker: WorkerCfg{
			Nodes:   splitCSV(getenv("WORKER_NODES", "")),
			Timeout: getduration("WORKER_TIMEOUT", 30*time.Second),
		},

		FCGI: FCGICfg{
			Threads: getint("FCGI_THREADS", 4),
		},

		Invalidation: InvalidationCfg{
			Enabled: getbool("INVALIDATION_ENABLED", false),
			Topic:   getenv("KAFKA_TOPIC", "dqm.events"),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			GroupID: getenv("KAFKA_GROUP_ID", "dqm-events"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getuint64(k string, def uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
