package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/codec"
	"github.com/cuemby/venice-admin-consumer/pkg/config"
	"github.com/cuemby/venice-admin-consumer/pkg/coordinator"
	"github.com/cuemby/venice-admin-consumer/pkg/dispatch"
	"github.com/cuemby/venice-admin-consumer/pkg/executor"
	"github.com/cuemby/venice-admin-consumer/pkg/leader"
	"github.com/cuemby/venice-admin-consumer/pkg/log"
	"github.com/cuemby/venice-admin-consumer/pkg/metrics"
	"github.com/cuemby/venice-admin-consumer/pkg/queue"
	"github.com/cuemby/venice-admin-consumer/pkg/stream"
	"github.com/cuemby/venice-admin-consumer/pkg/tailer"
	"github.com/cuemby/venice-admin-consumer/pkg/watermark"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	cfgFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "admin-consumer",
	Short: "Venice admin log consumer",
	Long: `admin-consumer tails a Venice admin operations log, dispatches each
record to the store catalog in strict per-store order, and checkpoints its
progress so it can resume after a restart without losing or duplicating
work.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"admin-consumer version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	if level == "" {
		level = "info"
	}
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{
		Level:      log.Level(level),
		JSONOutput: jsonOut,
		Output:     os.Stdout,
	})
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the admin log consumer",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("cluster", "", "Cluster name")
	runCmd.Flags().String("role", "", "Process role (parent or child)")
	runCmd.Flags().StringSlice("brokers", nil, "Kafka bootstrap brokers")
	runCmd.Flags().String("admin-topic", "", "Admin operations topic")
	runCmd.Flags().String("data-dir", "", "Data directory for catalog and watermark state")
	runCmd.Flags().Int("pool-size", 0, "Fixed worker pool size")
	runCmd.Flags().Duration("checkpoint-interval", 0, "How often to persist a checkpoint")
	runCmd.Flags().Bool("single-node", true, "Run leadership election degenerate to a single always-leader node")
	runCmd.Flags().String("node-id", "", "Raft node ID (multi-node only)")
	runCmd.Flags().String("bind-addr", "", "Raft bind address (multi-node only)")
	runCmd.Flags().String("metrics-addr", "", "Address to serve /metrics, /health, /ready, /live on")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	o := config.FlagOverrides{}

	if v, _ := cmd.Flags().GetString("cluster"); v != "" {
		o.Cluster = &v
	}
	if v, _ := cmd.Flags().GetString("role"); v != "" {
		o.Role = &v
	}
	if v, _ := cmd.Flags().GetStringSlice("brokers"); len(v) > 0 {
		o.Brokers = v
	}
	if v, _ := cmd.Flags().GetString("admin-topic"); v != "" {
		o.AdminTopic = &v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		o.DataDir = &v
	}
	if v, _ := cmd.Flags().GetInt("pool-size"); v > 0 {
		o.WorkerPoolSize = &v
	}
	if v, _ := cmd.Flags().GetDuration("checkpoint-interval"); v > 0 {
		o.CheckpointInterval = &v
	}
	if cmd.Flags().Changed("single-node") {
		v, _ := cmd.Flags().GetBool("single-node")
		o.SingleNode = &v
	}
	if v, _ := cmd.Flags().GetString("node-id"); v != "" {
		o.NodeID = &v
	}
	if v, _ := cmd.Flags().GetString("bind-addr"); v != "" {
		o.BindAddr = &v
	}
	if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
		o.MetricsAddr = &v
	}

	return config.Load(cfgFile, o)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID := uuid.New().String()
	logger := log.WithComponent("main").With().Str("run_id", runID).Logger()
	logger.Info().Str("cluster", cfg.Cluster).Str("role", string(cfg.Role)).Msg("starting admin-consumer")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	catalog, err := backend.NewCatalog(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalog.Close()

	wm, err := watermark.NewBoltStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open watermark store: %w", err)
	}
	defer wm.Close()

	table := dispatch.NewTable(catalog, cfg.Role)
	registry := queue.NewRegistry()
	execIDs := queue.NewExecutionIDMap()

	src, err := stream.NewKafkaStream(cfg.Brokers, cfg.AdminTopic)
	if err != nil {
		return fmt.Errorf("connect to kafka: %w", err)
	}
	defer src.Close()

	tl := tailer.New(src, codec.New(), registry)

	pool := executor.NewPool(cfg.WorkerPoolSize, func() *executor.Worker {
		return executor.NewWorker(table, execIDs, wm, cfg.Cluster)
	})

	oracle, closeOracle, err := buildOracle(cfg)
	if err != nil {
		return fmt.Errorf("build leader oracle: %w", err)
	}
	defer closeOracle()

	collector := metrics.NewCollector(func() []metrics.QueueStat {
		queues := registry.Snapshot()
		stats := make([]metrics.QueueStat, len(queues))
		for i, q := range queues {
			stats[i] = metrics.QueueStat{Store: q.Store(), Depth: q.Len()}
		}
		return stats
	}, oracle)
	collector.Start()
	defer collector.Stop()

	metrics.SetVersion(Version)
	metrics.RegisterComponent("tailer", true, "running")
	metrics.RegisterComponent("watermark", true, "open")
	metrics.RegisterComponent("leader", true, "oracle ready")
	metrics.RegisterComponent("coordinator", true, "running")

	stopMetricsServer := serveMetrics(cfg.MetricsAddr)
	defer stopMetricsServer()

	coord := coordinator.New(coordinator.Config{
		Cluster:            cfg.Cluster,
		CheckpointInterval: cfg.CheckpointInterval.AsDuration(),
		Backoff: coordinator.BackoffPolicy{
			Base: cfg.Backoff.Base.AsDuration(),
			Max:  cfg.Backoff.Max.AsDuration(),
		},
	}, registry, tl, pool, oracle, wm, execIDs)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("shutdown signal received")
		cancel()
	}()

	if err := coord.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("coordinator stopped: %w", err)
	}
	logger.Info().Msg("admin-consumer stopped")
	return nil
}

// buildOracle wires the leadership-election-only Raft group, or a
// StaticOracle pinned to leader for the single-node degenerate case
// (spec.md §4.7, "Leadership gate").
func buildOracle(cfg config.Config) (leader.Oracle, func() error, error) {
	if cfg.SingleNode {
		return leader.NewStaticOracle(true), func() error { return nil }, nil
	}

	raftOracle, err := leader.NewRaftOracle(leader.RaftConfig{
		NodeID:   cfg.Raft.NodeID,
		BindAddr: cfg.Raft.BindAddr,
		DataDir:  cfg.Raft.DataDir,
	})
	if err != nil {
		return nil, nil, err
	}
	return raftOracle, raftOracle.Shutdown, nil
}

func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithComponent("metrics").Error().Err(err).Msg("metrics server stopped")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the checkpointed offset and exec-id watermarks for a cluster",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("cluster", "", "Cluster name")
	statusCmd.Flags().String("data-dir", "", "Data directory holding the watermark store")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, config.FlagOverrides{})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("cluster"); v != "" {
		cfg.Cluster = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}

	wm, err := watermark.NewBoltStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open watermark store: %w", err)
	}
	defer wm.Close()

	offset, ok, err := wm.ReadOffset(cfg.Cluster)
	if err != nil {
		return fmt.Errorf("read offset: %w", err)
	}
	if !ok {
		fmt.Printf("cluster %s has no checkpointed offset yet\n", cfg.Cluster)
	} else {
		fmt.Printf("cluster %s checkpointed offset: %d\n", cfg.Cluster, offset)
	}

	ids, err := wm.ReadExecIDs(cfg.Cluster)
	if err != nil {
		return fmt.Errorf("read execution ids: %w", err)
	}
	fmt.Printf("cluster %s per-store execution ids:\n", cfg.Cluster)
	for store, id := range ids {
		fmt.Printf("  %s: %d\n", store, id)
	}
	return nil
}
