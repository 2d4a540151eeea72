// Package dataexport dumps ledger tables to CSV files.
package dataexport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

func writeToCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	logging.L.Info().Msgf("Writing to %s", path)
	file, err := os.Create(path)
	if err != nil {
		logging.L.Err(err).Str("path", path).Msg("failed creating file")
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return file.Sync()
}

/* Balances */

func ExportBalances(r *dbpebble.Reader, path string) error {
	records := [][]string{{
		"owner",
		"tick",
		"overall",
		"transferable",
		"available",
	}}
	err := r.ForEachBalance(func(owner string, b *brc20.Balance) error {
		records = append(records, []string{
			owner,
			b.Tick.String(),
			b.Overall.Dec(),
			b.Transferable.Dec(),
			b.Available().Dec(),
		})
		return nil
	})
	if err != nil {
		logging.L.Err(err).Msg("error fetching all balances")
		return err
	}
	return writeToCSV(path, records)
}

/* Tokens */

func ExportTokens(r *dbpebble.Reader, path string) error {
	tokens, err := r.GetTokensInfo()
	if err != nil {
		logging.L.Err(err).Msg("error fetching all tokens")
		return err
	}
	return writeToCSV(path, convertTokensToRecords(tokens))
}

func convertTokensToRecords(tokens []brc20.TokenInfo) [][]string {
	records := [][]string{{
		"tick",
		"inscriptionId",
		"inscriptionNumber",
		"supply",
		"minted",
		"limitPerMint",
		"decimal",
		"deployBy",
		"deployedNumber",
		"deployedTimestamp",
		"latestMintNumber",
	}}
	for _, t := range tokens {
		records = append(records, []string{
			t.Tick.String(),
			t.InscriptionId.String(),
			strconv.FormatInt(t.InscriptionNumber, 10),
			t.Supply.Dec(),
			t.Minted.Dec(),
			t.LimitPerMint.Dec(),
			strconv.FormatUint(uint64(t.Decimal), 10),
			t.DeployBy.String(),
			strconv.FormatUint(t.DeployedNumber, 10),
			strconv.FormatUint(uint64(t.DeployedTimestamp), 10),
			strconv.FormatUint(t.LatestMintNumber, 10),
		})
	}
	return records
}

/* Transferable logs */

func ExportTransferable(r *dbpebble.Reader, path string) error {
	records := [][]string{{
		"owner",
		"tick",
		"inscriptionId",
		"inscriptionNumber",
		"amount",
	}}
	err := r.ForEachTransferable(func(owner string, logs []brc20.TransferableLog) error {
		for _, l := range logs {
			records = append(records, []string{
				owner,
				l.Tick.String(),
				l.InscriptionId.String(),
				strconv.FormatInt(l.InscriptionNumber, 10),
				l.Amount.Dec(),
			})
		}
		return nil
	})
	if err != nil {
		logging.L.Err(err).Msg("error fetching all transferable logs")
		return err
	}
	return writeToCSV(path, records)
}

/* Receipts */

// ExportReceipts writes one row per receipt of the given transactions.
// Transactions without receipts are left out.
func ExportReceipts(r *dbpebble.Reader, txids []chainhash.Hash, path string) error {
	records := [][]string{{
		"txid",
		"inscriptionId",
		"op",
		"from",
		"to",
		"tick",
		"amount",
		"error",
	}}
	for i := range txids {
		receipts, err := r.GetTransactionReceipts(&txids[i])
		if err != nil {
			logging.L.Err(err).Stringer("txid", &txids[i]).Msg("error fetching receipts")
			return err
		}
		for _, rc := range receipts {
			var tick, amount string
			if rc.Event != nil {
				tick = rc.Event.Tick.String()
				if rc.Event.Type == brc20.EventDeploy {
					amount = rc.Event.Supply.Dec()
				} else {
					amount = rc.Event.Amount.Dec()
				}
			}
			records = append(records, []string{
				txids[i].String(),
				rc.InscriptionId.String(),
				rc.Op.String(),
				rc.From.String(),
				rc.To.String(),
				tick,
				amount,
				rc.Err,
			})
		}
	}
	return writeToCSV(path, records)
}

// ExportAll writes balances.csv, tokens.csv and transferable.csv into dir.
func ExportAll(r *dbpebble.Reader, dir string) error {
	if err := ExportBalances(r, filepath.Join(dir, "balances.csv")); err != nil {
		return err
	}
	if err := ExportTokens(r, filepath.Join(dir, "tokens.csv")); err != nil {
		return err
	}
	return ExportTransferable(r, filepath.Join(dir, "transferable.csv"))
}
