package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/dblevel"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

var verifyImport bool

func init() {
	importCmd.Flags().BoolVar(
		&verifyImport,
		"verify",
		false,
		"Decode every value before copying and skip the ones that do not decode",
	)
}

var importCmd = &cobra.Command{
	Use:   "import-leveldb <path>",
	Short: "Copy the ledger tables out of a leveldb database",
	Long: `Copy the ledger tables from a leveldb database using the same key layout
into the pebble database. The source is opened read-only and copied from a
single snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := dblevel.OpenDBConnection(config.ResolvePath(args[0]))
		if err != nil {
			return fmt.Errorf("error opening leveldb: %w", err)
		}
		defer func() {
			if err := src.Close(); err != nil {
				logging.L.Err(err).Msg("leveldb close failed")
			}
		}()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		stats, err := dblevel.ImportLedger(src, store, dblevel.ImportOptions{
			BatchSize: config.ImportBatchSize,
			Verify:    verifyImport,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		for table, n := range stats.Copied {
			fmt.Printf("%-25s: %d copied, %d skipped\n", table, n, stats.Skipped[table])
		}
		fmt.Printf("%-25s: %d copied\n", "TOTAL", stats.Total())
		return nil
	},
}
