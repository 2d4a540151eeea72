package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

var (
	Version = "0.0.0"

	// Global flags
	datadir    string
	configFile string
	dbPath     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(
		&datadir,
		"datadir",
		config.DefaultBaseDirectory,
		"Set the base directory for the ledger. Default directory is ~/.brc20-ledger",
	)
	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config",
		"",
		"Path to config file (default: datadir/brc20.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"db",
		"",
		"Path to the pebble database directory (default: datadir/data/pebble)",
	)
}

var rootCmd = &cobra.Command{
	Use:   "brc20-ledger",
	Short: "BRC-20 ledger store",
	Long: `brc20-ledger serves and inspects the BRC-20 ledger tables (balances,
token info, receipts and transferable inscriptions) kept in a pebble database.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.BaseDirectory = datadir
		config.SetDirectories()

		err := os.MkdirAll(config.BaseDirectory, 0750)
		if err != nil && !errors.Is(err, os.ErrExist) {
			logging.L.Fatal().Err(err).Msg("error creating base directory")
		}
		logging.L.Debug().Msgf("base directory %s", config.BaseDirectory)

		// load after loggers are instantiated
		if configFile == "" {
			configFile = filepath.Join(config.BaseDirectory, config.ConfigFileName)
		}
		config.LoadConfigs(configFile)

		if dbPath != "" {
			config.DBPath = config.ResolvePath(dbPath)
		}

		if config.LogsPath != "" {
			if err := logging.SetLogOutput(config.LogsPath, config.LogFileName, config.LogToConsole); err != nil {
				logging.L.Warn().Err(err).Msg("Failed to initialize file logging")
			}
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

// openStore opens the configured pebble db, creating the directory and the
// table catalog on first use.
func openStore() (*dbpebble.Store, error) {
	if err := os.MkdirAll(config.DBPath, 0750); err != nil {
		return nil, fmt.Errorf("error creating db path: %w", err)
	}
	store, err := dbpebble.OpenStore(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return store, nil
}

func closeStore(store *dbpebble.Store) {
	if err := store.Close(); err != nil {
		logging.L.Err(err).Msg("db close failed")
		return
	}
	logging.L.Debug().Msg("db closed successfully")
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(receiptsCmd)
	rootCmd.AddCommand(transferableCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
