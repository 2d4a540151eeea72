package main

import (
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spf13/cobra"

	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/dataexport"
)

var exportTxids []string

func init() {
	exportCmd.Flags().StringSliceVar(
		&exportTxids,
		"txid",
		nil,
		"Also write receipts.csv for these transactions (repeatable)",
	)
}

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export the ledger tables as CSV",
	Long: `Write balances.csv, tokens.csv and transferable.csv from one snapshot.
The default directory is datadir/export.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Join(config.BaseDirectory, "export")
		if len(args) == 1 {
			dir = config.ResolvePath(args[0])
		}

		txids := make([]chainhash.Hash, len(exportTxids))
		for i, s := range exportTxids {
			h, err := chainhash.NewHashFromStr(s)
			if err != nil {
				return fmt.Errorf("could not parse txid %q: %w", s, err)
			}
			txids[i] = *h
		}

		return view(func(r *dbpebble.Reader) error {
			if err := dataexport.ExportAll(r, dir); err != nil {
				return err
			}
			if len(txids) == 0 {
				return nil
			}
			return dataexport.ExportReceipts(r, txids, filepath.Join(dir, "receipts.csv"))
		})
	},
}
