package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/logging"
	"github.com/setavenger/brc20-ledger/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Long: `Serve the ledger tables read-only over HTTP. Every request reads from
its own snapshot of the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		logging.L.Info().Msg("Program Started")
		defer logging.L.Info().Msg("Program shut down")

		go server.RunServer(server.NewApiHandler(store, config.ChainParams()))

		<-interrupt
		logging.L.Info().Msg("Program interrupted")
		return nil
	},
}
