package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spf13/cobra"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/server"
)

var inscriptionFlag string

func init() {
	transferableCmd.Flags().StringVar(
		&inscriptionFlag,
		"inscription",
		"",
		"Only show the transferable log of this inscription id (<txid>i<index>)",
	)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// view runs fn against a fresh snapshot of the configured store.
func view(fn func(r *dbpebble.Reader) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)
	return store.View(fn)
}

func parseOwner(s string) (brc20.ScriptKey, error) {
	owner, err := brc20.ParseScriptKey(s, config.ChainParams())
	if err != nil {
		return brc20.ScriptKey{}, fmt.Errorf("could not parse owner: %w", err)
	}
	return owner, nil
}

var balanceCmd = &cobra.Command{
	Use:   "balance <owner> [tick]",
	Short: "Show the balances of an owner",
	Long: `Show every balance of an owner, or only the balance of one tick. The owner
is an address of the configured chain or a 40 character script hash.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseOwner(args[0])
		if err != nil {
			return err
		}
		return view(func(r *dbpebble.Reader) error {
			if len(args) == 1 {
				balances, err := r.GetBalances(owner)
				if err != nil {
					return err
				}
				out := make([]server.BalanceResponse, len(balances))
				for i := range balances {
					token, err := r.GetTokenInfo(balances[i].Tick)
					if err != nil {
						return err
					}
					out[i] = server.NewBalanceResponse(&balances[i], token)
				}
				return printJSON(out)
			}

			tick, err := brc20.NewTick(args[1])
			if err != nil {
				return err
			}
			balance, err := r.GetBalance(owner, tick)
			if err != nil {
				return err
			}
			if balance == nil {
				return fmt.Errorf("no %s balance for %s", tick, owner)
			}
			token, err := r.GetTokenInfo(tick)
			if err != nil {
				return err
			}
			return printJSON(server.NewBalanceResponse(balance, token))
		})
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [tick]",
	Short: "Show deployed tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return view(func(r *dbpebble.Reader) error {
			if len(args) == 0 {
				tokens, err := r.GetTokensInfo()
				if err != nil {
					return err
				}
				out := make([]server.TokenResponse, len(tokens))
				for i := range tokens {
					out[i] = server.NewTokenResponse(&tokens[i])
				}
				return printJSON(out)
			}

			tick, err := brc20.NewTick(args[0])
			if err != nil {
				return err
			}
			token, err := r.GetTokenInfo(tick)
			if err != nil {
				return err
			}
			if token == nil {
				return fmt.Errorf("token %s not deployed", tick)
			}
			return printJSON(server.NewTokenResponse(token))
		})
	},
}

var receiptsCmd = &cobra.Command{
	Use:   "receipts <txid>",
	Short: "Show the action receipts of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txid, err := chainhash.NewHashFromStr(args[0])
		if err != nil {
			return fmt.Errorf("could not parse txid: %w", err)
		}
		return view(func(r *dbpebble.Reader) error {
			receipts, err := r.GetTransactionReceipts(txid)
			if err != nil {
				return err
			}
			out := make([]server.ReceiptResponse, len(receipts))
			for i := range receipts {
				out[i] = server.NewReceiptResponse(&receipts[i])
			}
			return printJSON(out)
		})
	},
}

var transferableCmd = &cobra.Command{
	Use:   "transferable <owner> [tick]",
	Short: "Show inscribed but unsent transfers of an owner",
	Long: `Show the transferable logs of an owner, optionally narrowed to one tick.
With --inscription only the log of that inscription is shown.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseOwner(args[0])
		if err != nil {
			return err
		}
		var tick *brc20.Tick
		if len(args) == 2 {
			t, err := brc20.NewTick(args[1])
			if err != nil {
				return err
			}
			tick = &t
		}

		return view(func(r *dbpebble.Reader) error {
			if inscriptionFlag != "" {
				id, err := brc20.ParseInscriptionId(inscriptionFlag)
				if err != nil {
					return err
				}
				var log *brc20.TransferableLog
				if tick != nil {
					log, err = r.GetTransferableByID(owner, *tick, id)
				} else {
					log, err = r.GetTransferableByInscription(owner, id)
				}
				if err != nil {
					return err
				}
				if log == nil {
					return fmt.Errorf("no transferable log for %s", id)
				}
				return printJSON(server.NewTransferableResponse(log))
			}

			var logs []brc20.TransferableLog
			if tick != nil {
				logs, err = r.GetTransferableByTick(owner, *tick)
			} else {
				logs, err = r.GetTransferable(owner)
			}
			if err != nil {
				return err
			}
			out := make([]server.TransferableResponse, len(logs))
			for i := range logs {
				out[i] = server.NewTransferableResponse(&logs[i])
			}
			return printJSON(out)
		})
	},
}
