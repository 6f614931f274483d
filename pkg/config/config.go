package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so it can be written as "500ms" or "5s" in
// the YAML config file instead of a raw integer count of nanoseconds.
type Duration time.Duration

func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// BackoffConfig is the exponential backoff applied to a store's queue
// after a Retriable dispatch failure.
type BackoffConfig struct {
	Base Duration `yaml:"base"`
	Max  Duration `yaml:"max"`
}

// RaftConfig configures the leadership-election-only Raft group (pkg/leader).
type RaftConfig struct {
	NodeID   string `yaml:"nodeId"`
	BindAddr string `yaml:"bindAddr"`
	DataDir  string `yaml:"dataDir"`
}

// Config is the admin consumer's merged configuration: defaults from a
// YAML file, overridden field-by-field by whichever flags the caller set.
type Config struct {
	Cluster    string     `yaml:"cluster"`
	Role       types.Role `yaml:"role"`
	Brokers    []string   `yaml:"brokers"`
	AdminTopic string     `yaml:"adminTopic"`
	DataDir    string     `yaml:"dataDir"`

	WorkerPoolSize     int           `yaml:"workerPoolSize"`
	CheckpointInterval Duration      `yaml:"checkpointInterval"`
	Backoff            BackoffConfig `yaml:"backoff"`

	SingleNode bool       `yaml:"singleNode"`
	Raft       RaftConfig `yaml:"raft"`

	MetricsAddr string `yaml:"metricsAddr"`
	LogLevel    string `yaml:"logLevel"`
	LogJSON     bool   `yaml:"logJson"`
}

// Defaults returns the configuration every field falls back to absent an
// overriding file or flag.
func Defaults() Config {
	return Config{
		Cluster:            "cluster-0",
		Role:               types.RoleChild,
		Brokers:            []string{"127.0.0.1:9092"},
		AdminTopic:         "admin-operations",
		DataDir:            "./admin-consumer-data",
		WorkerPoolSize:     4,
		CheckpointInterval: Duration(5 * time.Second),
		Backoff: BackoffConfig{
			Base: Duration(500 * time.Millisecond),
			Max:  Duration(30 * time.Second),
		},
		SingleNode: true,
		Raft: RaftConfig{
			NodeID:   "node-1",
			BindAddr: "127.0.0.1:7950",
			DataDir:  "./admin-consumer-data/raft",
		},
		MetricsAddr: "127.0.0.1:9090",
		LogLevel:    "info",
		LogJSON:     false,
	}
}

// FlagOverrides mirrors Config's scalar fields as pointers: a nil field
// means "flag not set, keep whatever the file (or default) already has."
// Slice fields apply only when non-empty.
type FlagOverrides struct {
	Cluster    *string
	Role       *string
	Brokers    []string
	AdminTopic *string
	DataDir    *string

	WorkerPoolSize     *int
	CheckpointInterval *time.Duration
	BackoffBase        *time.Duration
	BackoffMax         *time.Duration

	SingleNode *bool
	NodeID     *string
	BindAddr   *string
	RaftDir    *string

	MetricsAddr *string
	LogLevel    *string
	LogJSON     *bool
}

// Load builds a Config by starting from Defaults, then layering a YAML
// file (if path is non-empty) over it, then layering flag overrides over
// the result — the same "file provides defaults, flags win" precedence
// warren's apply/cluster-init commands use for their own YAML resources.
func Load(path string, overrides FlagOverrides) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyOverrides(&cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, o FlagOverrides) {
	if o.Cluster != nil {
		cfg.Cluster = *o.Cluster
	}
	if o.Role != nil {
		cfg.Role = types.Role(*o.Role)
	}
	if len(o.Brokers) > 0 {
		cfg.Brokers = o.Brokers
	}
	if o.AdminTopic != nil {
		cfg.AdminTopic = *o.AdminTopic
	}
	if o.DataDir != nil {
		cfg.DataDir = *o.DataDir
	}
	if o.WorkerPoolSize != nil {
		cfg.WorkerPoolSize = *o.WorkerPoolSize
	}
	if o.CheckpointInterval != nil {
		cfg.CheckpointInterval = Duration(*o.CheckpointInterval)
	}
	if o.BackoffBase != nil {
		cfg.Backoff.Base = Duration(*o.BackoffBase)
	}
	if o.BackoffMax != nil {
		cfg.Backoff.Max = Duration(*o.BackoffMax)
	}
	if o.SingleNode != nil {
		cfg.SingleNode = *o.SingleNode
	}
	if o.NodeID != nil {
		cfg.Raft.NodeID = *o.NodeID
	}
	if o.BindAddr != nil {
		cfg.Raft.BindAddr = *o.BindAddr
	}
	if o.RaftDir != nil {
		cfg.Raft.DataDir = *o.RaftDir
	}
	if o.MetricsAddr != nil {
		cfg.MetricsAddr = *o.MetricsAddr
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.LogJSON != nil {
		cfg.LogJSON = *o.LogJSON
	}
}

// Validate rejects a configuration that would make New() fail anyway,
// surfacing the error at startup instead of three layers deep in wiring.
func (c Config) Validate() error {
	if c.Cluster == "" {
		return fmt.Errorf("cluster must not be empty")
	}
	if c.Role != types.RoleParent && c.Role != types.RoleChild {
		return fmt.Errorf("role must be %q or %q, got %q", types.RoleParent, types.RoleChild, c.Role)
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("at least one broker is required")
	}
	if c.AdminTopic == "" {
		return fmt.Errorf("adminTopic must not be empty")
	}
	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("workerPoolSize must be >= 1, got %d", c.WorkerPoolSize)
	}
	if !c.SingleNode && c.Raft.BindAddr == "" {
		return fmt.Errorf("raft.bindAddr is required when singleNode is false")
	}
	return nil
}
