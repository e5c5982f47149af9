package main

import (
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// WorkerConfig is the YAML-loadable deploy-time configuration for
// stcworker, following the same creasty/defaults + yaml.v3 pattern as
// stcserver's ServerConfig.
type WorkerConfig struct {
	Addr    string `yaml:"addr" default:":9190"`
	NodeID  string `yaml:"nodeId" default:"node-1"`
	Logging string `yaml:"logging" default:"info"`

	SchedulerAddr   string        `yaml:"schedulerAddr" default:"http://localhost:8090"`
	RegisterTimeout time.Duration `yaml:"registerTimeout" default:"5s"`
	DispatchTimeout time.Duration `yaml:"dispatchTimeout" default:"30s"`
}

func loadWorkerConfigFromFile(file string) (*WorkerConfig, error) {
	if file == "" {
		file = "stcworker.yaml"
	}

	cfg := &WorkerConfig{}
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
