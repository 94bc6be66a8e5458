// Package commands содержит команды утилиты gymctl.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
)

var (
	// Глобальные флаги
	configPath string
	driver     string
	dsn        string
)

// rootCmd корневая команда утилиты.
var rootCmd = &cobra.Command{
	Use:   "gymctl",
	Short: "gymctl - operator tool for the gym tracker storage",
	Long: `gymctl applies database migrations, bootstraps administrators
and tails user lifecycle events.

Connection settings are taken from the YAML config (--config or CONFIG_PATH)
and can be overridden with --driver and --dsn.`,
	SilenceUsage: true,
}

// Execute запускает корневую команду и завершает процесс с кодом 1 при ошибке.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to YAML config")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Storage driver: postgres or sqlite")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Storage connection string")
}

// storageSettings возвращает драйвер и DSN: флаги важнее конфига.
func storageSettings() (string, string, error) {
	d, s := driver, dsn
	if (d == "" || s == "") && configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return "", "", err
		}
		if d == "" {
			d = cfg.Driver
		}
		if s == "" {
			s = cfg.DSN
		}
	}
	if d == "" {
		d = "postgres"
	}
	if s == "" {
		return "", "", fmt.Errorf("storage dsn is not set: use --dsn or --config")
	}
	return d, s, nil
}
