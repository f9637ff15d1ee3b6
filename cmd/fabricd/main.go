package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexusprime/fabric/pkg/fabric"
	"github.com/nexusprime/fabric/pkg/log"
	"github.com/nexusprime/fabric/pkg/metrics"
	"github.com/nexusprime/fabric/pkg/nodeproxy"
	"github.com/nexusprime/fabric/pkg/reaper"
	"github.com/nexusprime/fabric/pkg/store"
	"github.com/nexusprime/fabric/pkg/types"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "fabricd",
	Short:   "fabricd - Nexus Prime fabric control plane",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fabricd version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the fabric control plane",
	RunE:  runFabricd,
}

func init() {
	runCmd.Flags().String("data-dir", "./fabric-data", "Directory for the embedded state store")
	runCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Address for the Prometheus metrics endpoint")
	runCmd.Flags().String("reap-interval", "", "Override the reaper tick interval (e.g. 5m)")
	runCmd.Flags().String("config", "", "Optional YAML file seeding initial node registrations")
}

func runFabricd(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	reapIntervalRaw, _ := cmd.Flags().GetString("reap-interval")
	configPath, _ := cmd.Flags().GetString("config")

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.NewBoltStateStore(dataDir)
	if err != nil {
		metrics.RegisterComponent("store", false, err.Error())
		return fmt.Errorf("open state store: %w", err)
	}
	defer st.Close()
	metrics.RegisterComponent("store", true, "")

	pool := nodeproxy.NewPool()
	defer pool.Close()

	mgr := fabric.NewManager(pool, st)
	if err := mgr.LoadFromStore(); err != nil {
		return fmt.Errorf("load persisted state: %w", err)
	}
	log.Info("loaded persisted fabric state")

	if configPath != "" {
		cfg, err := loadFileConfig(configPath)
		if err != nil {
			return fmt.Errorf("load fabric config: %w", err)
		}
		for _, n := range cfg.Nodes {
			mgr.RegisterNode(&types.ComputeNode{
				ID:                 n.ID,
				NodeType:           types.NodeType(n.NodeType),
				ProxyListenAddress: n.ProxyListenAddress,
				IPAddress:          n.IPAddress,
			})
		}
		log.Logger.Info().Int("count", len(cfg.Nodes)).Msg("seeded nodes from config file")
	}

	r := reaper.New(mgr, reapIntervalOrDefault(reapIntervalRaw, fabric.ReapInterval))
	r.Start()
	defer r.Stop()
	metrics.RegisterComponent("reaper", true, "")
	metrics.SetVersion(Version)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/healthz", metrics.HealthHandler())
		mux.Handle("/readyz", metrics.ReadyHandler())
		mux.Handle("/livez", metrics.LivenessHandler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	log.Logger.Info().Str("addr", metricsAddr).Msg("metrics and health endpoints listening")

	log.Info("fabric control plane running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	return nil
}
