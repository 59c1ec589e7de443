package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ormared/ethercat-driver-ros2/internal/config"
	"github.com/Ormared/ethercat-driver-ros2/internal/master"
	"github.com/Ormared/ethercat-driver-ros2/internal/pdo"
	"github.com/Ormared/ethercat-driver-ros2/internal/slave"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cyclic PDO exchange",
	RunE:  runDriver,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDriver(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Config loaded successfully")

	registry := pdo.NewInterfaceRegistry()
	m := master.New(registry, logger)

	loader, err := slave.NewLoader(cfg.Slaves.SearchPaths)
	if err != nil {
		logger.Fatal("Failed to create slave loader", zap.Error(err))
	}

	for _, ref := range cfg.Slaves.Configs {
		slaveCfg, err := loader.Load(ref.Profile)
		if err != nil {
			logger.Fatal("Failed to load slave config",
				zap.String("slave", ref.Name),
				zap.Error(err))
		}

		s, err := slave.New(ref.Name, slaveCfg, registry, logger)
		if err != nil {
			logger.Fatal("Failed to build slave",
				zap.String("slave", ref.Name),
				zap.Error(err))
		}

		if _, err := m.Attach(s); err != nil {
			logger.Fatal("Failed to attach slave",
				zap.String("slave", ref.Name),
				zap.Error(err))
		}
	}

	if err := m.Bind(); err != nil {
		logger.Fatal("Failed to bind interfaces", zap.Error(err))
	}

	runner := master.NewCycleRunner(m, cfg.Cycle.Period, logger)
	if err := runner.Start(); err != nil {
		logger.Fatal("Failed to start cycle runner", zap.Error(err))
	}

	logger.Info("Driver started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutdown signal received")

	runner.Stop()

	logger.Info("Driver stopped successfully")
	return nil
}
