package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

func NewRouter(api *ApiHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/info", api.GetInfo)

	read := router.Group("/", SnapshotMiddleware(api.Store))
	read.GET("/balances/:owner", ParseOwnerMiddleware(api.Params), api.GetBalances)
	read.GET("/balances/:owner/:tick", ParseOwnerMiddleware(api.Params), ParseTickMiddleware, api.GetBalance)
	read.GET("/tokens", api.GetTokens)
	read.GET("/tokens/:tick", ParseTickMiddleware, api.GetToken)
	read.GET("/receipts/:txid", api.GetReceipts)
	read.GET("/transferable/:owner", ParseOwnerMiddleware(api.Params), api.GetTransferable)
	read.GET("/transferable/:owner/:tick", ParseOwnerMiddleware(api.Params), ParseTickMiddleware, api.GetTransferableByTick)
	read.GET("/transferable/:owner/:tick/:inscription", ParseOwnerMiddleware(api.Params), ParseTickMiddleware, api.GetTransferableByID)

	return router
}

func RunServer(api *ApiHandler) {
	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(api)

	logging.L.Info().Str("host", config.HTTPHost).Msg("starting http server")
	if err := router.Run(config.HTTPHost); err != nil {
		logging.L.Err(err).Msg("could not run server")
	}
}
