package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setavenger/brc20-ledger/internal/brc20"
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

	// Count command flags
	table string
	owner string
)

func init() {
	// Global flags
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

	// Count command flags
	countCmd.Flags().StringVar(
		&table,
		"table",
		dbpebble.TableBalances,
		"Table to count: "+strings.Join(dbpebble.TableNames(), ", "),
	)
	countCmd.Flags().StringVar(
		&owner,
		"owner",
		"",
		"Only count the keys of this owner (balances and transferable tables)",
	)
}

var rootCmd = &cobra.Command{
	Use:   "db-explorer",
	Short: "BRC-20 Ledger Database Explorer",
	Long: `BRC-20 Ledger Database Explorer provides tools to explore and analyze
the pebble database holding the ledger tables.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.BaseDirectory = datadir
		config.SetDirectories()

		logging.L.Info().Msgf("base directory %s", config.BaseDirectory)

		if configFile == "" {
			configFile = filepath.Join(config.BaseDirectory, config.ConfigFileName)
		}
		config.LoadConfigs(configFile)

		if dbPath == "" {
			dbPath = config.DBPath
		}
		dbPath = config.ResolvePath(dbPath)
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count keys of a ledger table",
	Long: `Count the keys of one ledger table. For the balances and transferable
tables the count can be narrowed to a single owner.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Opening database at: %s\n", dbPath)

		var ownerKey *brc20.ScriptKey
		if owner != "" {
			k, err := brc20.ParseScriptKey(owner, config.ChainParams())
			if err != nil {
				return fmt.Errorf("could not parse owner: %w", err)
			}
			ownerKey = &k
		}

		explorer, err := NewDatabaseExplorer(dbPath)
		if err != nil {
			return fmt.Errorf("error opening database: %w", err)
		}
		defer explorer.Close()

		count, err := explorer.CountTable(table, ownerKey)
		if err != nil {
			return fmt.Errorf("error counting keys: %w", err)
		}

		fmt.Printf("Found %d %s keys", count, table)
		if ownerKey != nil {
			fmt.Printf(" for %s", ownerKey)
		}
		fmt.Println()
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database information",
	Long: `Show database information including:
- Registered tables and their prefixes
- Key counts by prefix
- Database metrics (memtable size, cache size, WAL info, etc.)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Opening database at: %s\n", dbPath)

		explorer, err := NewDatabaseExplorer(dbPath)
		if err != nil {
			return fmt.Errorf("error opening database: %w", err)
		}
		defer explorer.Close()

		if err := explorer.PrintDatabaseInfo(); err != nil {
			return fmt.Errorf("error printing database info: %w", err)
		}

		return nil
	},
}

var listKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List all key types in the database",
	Long: `List all key prefixes present in the database with their counts.
This provides an overview of what data is stored in the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Opening database at: %s\n", dbPath)

		explorer, err := NewDatabaseExplorer(dbPath)
		if err != nil {
			return fmt.Errorf("error opening database: %w", err)
		}
		defer explorer.Close()

		if err := explorer.PrintKeyTypeSummary(); err != nil {
			return fmt.Errorf("error printing key type summary: %w", err)
		}

		return nil
	},
}

func main() {
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listKeysCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
