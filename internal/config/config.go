package config

import (
	"github.com/spf13/viper"

	"github.com/setavenger/brc20-ledger/internal/logging"
)

func LoadConfigs(pathToConfig string) {
	v := viper.New()
	v.SetConfigFile(pathToConfig)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		logging.L.Warn().Err(err).Msg("No config file detected")
	}

	/* set defaults */
	v.SetDefault("http_host", HTTPHost)
	v.SetDefault("chain", ChainToString(Chain))
	v.SetDefault("log_level", LogLevel)
	v.SetDefault("log_path", LogsPath)
	v.SetDefault("log_to_console", LogToConsole)
	v.SetDefault("pebble_cache_mb", PebbleCacheMB)
	v.SetDefault("import_batch_size", ImportBatchSize)

	v.AutomaticEnv()
	_ = v.BindEnv("http_host", "HTTP_HOST")
	_ = v.BindEnv("chain", "CHAIN")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_path", "LOG_PATH")
	_ = v.BindEnv("pebble_cache_mb", "PEBBLE_CACHE_MB")
	_ = v.BindEnv("import_batch_size", "IMPORT_BATCH_SIZE")

	HTTPHost = v.GetString("http_host")
	LogLevel = v.GetString("log_level")
	LogsPath = v.GetString("log_path")
	LogToConsole = v.GetBool("log_to_console")
	PebbleCacheMB = v.GetInt64("pebble_cache_mb")
	ImportBatchSize = v.GetInt("import_batch_size")

	chainInput := v.GetString("chain")
	c, ok := ParseChain(chainInput)
	if !ok {
		logging.L.Fatal().Str("chain", chainInput).Msg("chain undefined")
		return
	}
	Chain = c

	if ImportBatchSize <= 0 {
		logging.L.Warn().Int("import_batch_size", ImportBatchSize).Msg("invalid import batch size, using 10000")
		ImportBatchSize = 10_000
	}

	logging.SetLogLevel(logging.ParseLevel(LogLevel))

	logging.L.Info().Msgf("chain: %s", ChainToString(Chain))
	logging.L.Info().Msgf("http_host: %s", HTTPHost)
	logging.L.Debug().Msgf("pebble_cache_mb: %d", PebbleCacheMB)
}
