package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/setavenger/brc20-ledger/internal/logging"
)

const (
	ConfigFileName       string = "brc20.toml"
	DefaultBaseDirectory string = "~/.brc20-ledger"
	LogFileName          string = "brc20-ledger.log"
)

var (
	LogLevel     = "info"
	LogsPath     = ""
	LogToConsole = true
)

var (
	BaseDirectory = ""
	DBPath        = ""

	HTTPHost = "127.0.0.1:8000"

	// PebbleCacheMB is the block cache handed to pebble on open.
	PebbleCacheMB int64 = 256

	// ImportBatchSize is the number of keys copied per InProgress txn when
	// importing a legacy leveldb ledger.
	ImportBatchSize = 10_000
)

type chain int

const (
	Unknown chain = iota
	Mainnet
	Signet
	Regtest
	Testnet3
)

var Chain = Mainnet

// one has to call SetDirectories otherwise config.DBPath will be empty
func SetDirectories() {
	BaseDirectory = ResolvePath(BaseDirectory)

	DBPath = filepath.Join(BaseDirectory, "data", "pebble")
	if LogsPath == "" {
		LogsPath = filepath.Join(BaseDirectory, "logs")
	}
}

// ResolvePath expands a leading ~ to the user's home directory.
func ResolvePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			logging.L.Err(err).Msg("could not resolve home directory")
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func ParseChain(s string) (chain, bool) {
	switch s {
	case "main", "mainnet":
		return Mainnet, true
	case "signet":
		return Signet, true
	case "regtest":
		return Regtest, true
	case "testnet", "testnet3":
		return Testnet3, true
	default:
		return Unknown, false
	}
}

func ChainToString(c chain) string {
	switch c {
	case Mainnet:
		return "main"
	case Signet:
		return "signet"
	case Regtest:
		return "regtest"
	case Testnet3:
		return "testnet"
	default:
		return "unknown"
	}
}

// ChainParams returns the btcd network parameters used to render addresses.
func ChainParams() *chaincfg.Params {
	switch Chain {
	case Signet:
		return &chaincfg.SigNetParams
	case Regtest:
		return &chaincfg.RegressionNetParams
	case Testnet3:
		return &chaincfg.TestNet3Params
	default:
		return &chaincfg.MainNetParams
	}
}
