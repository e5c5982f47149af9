package main

import (
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// ServerConfig is the YAML-loadable deploy-time configuration for
// stcserver, grounded on ethpandaops-cbt's coordinator.Config: a
// default-tagged struct filled by creasty/defaults, then overridden by
// whatever the operator's YAML file sets. Every setting stcserver acts
// on, including the per-payload cache budgets, comes from this struct;
// the internal/core/config.FromEnv values handed to the HTTP server
// have their Addr and worker timeout overwritten from it.
type ServerConfig struct {
	Addr    string `yaml:"addr" default:":8090"`
	Logging string `yaml:"logging" default:"info"`

	Cache CacheConfig `yaml:"cache"`
	DQM   DQMConfig   `yaml:"dqm"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// CacheConfig selects the cache backend stcserver fronts.
type CacheConfig struct {
	Enabled     bool   `yaml:"enabled" default:"true"`
	Type        string `yaml:"type" default:"local"`
	Replacement string `yaml:"replacement" default:"lru"`
	RedisAddr   string `yaml:"redisAddr" default:"localhost:6379"`

	Sizes CacheSizesConfig `yaml:"sizes"`
}

// CacheSizesConfig mirrors internal/core/config.CacheSizes with
// YAML/default tags, per payload.Kind.
type CacheSizesConfig struct {
	Raster   uint64 `yaml:"raster" default:"268435456"`
	Points   uint64 `yaml:"points" default:"67108864"`
	Lines    uint64 `yaml:"lines" default:"67108864"`
	Polygons uint64 `yaml:"polygons" default:"67108864"`
	Plots    uint64 `yaml:"plots" default:"33554432"`
}

// DQMConfig configures the distributed query scheduler.
type DQMConfig struct {
	Strategy        string        `yaml:"strategy" default:"simple"`
	Alpha           float64       `yaml:"alpha" default:"0.3"`
	Tick            time.Duration `yaml:"tick" default:"100ms"`
	Timeout         time.Duration `yaml:"timeout" default:"30s"`
	Nodes           []string      `yaml:"nodes"`
	LocalityEnabled bool          `yaml:"localityEnabled" default:"false"`
	LocalityRes     int           `yaml:"localityRes" default:"3"`
}

// KafkaConfig configures the optional job-lifecycle event bus.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" default:"false"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" default:"dqm.events"`
	GroupID string   `yaml:"groupId" default:"stcserver"`
}

func loadServerConfigFromFile(file string) (*ServerConfig, error) {
	if file == "" {
		file = "stcserver.yaml"
	}

	cfg := &ServerConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file) //nolint:gosec // operator-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
