package server

import (
	"net/http"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/gin-gonic/gin"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

const (
	ctxReader = "reader"
	ctxOwner  = "owner"
	ctxTick   = "tick"
)

// SnapshotMiddleware gives every request its own snapshot, released once the
// handler chain returns.
func SnapshotMiddleware(store *dbpebble.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := store.BeginSnapshot()
		defer func() {
			if err := txn.Close(); err != nil {
				logging.L.Err(err).Msg("failed to release snapshot")
			}
		}()
		c.Set(ctxReader, dbpebble.NewReader(txn))
		c.Next()
	}
}

func ParseOwnerMiddleware(params *chaincfg.Params) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := brc20.ParseScriptKey(c.Param("owner"), params)
		if err != nil {
			logging.L.Debug().Err(err).Msg("could not parse owner")
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse owner"})
			c.Abort()
			return
		}
		c.Set(ctxOwner, owner)
		c.Next()
	}
}

func ParseTickMiddleware(c *gin.Context) {
	tick, err := brc20.NewTick(c.Param("tick"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tick"})
		c.Abort()
		return
	}
	c.Set(ctxTick, tick)
	c.Next()
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.L.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

func readerFrom(c *gin.Context) brc20.LedgerReader {
	return c.MustGet(ctxReader).(brc20.LedgerReader)
}

func ownerFrom(c *gin.Context) brc20.ScriptKey {
	return c.MustGet(ctxOwner).(brc20.ScriptKey)
}

func tickFrom(c *gin.Context) brc20.Tick {
	return c.MustGet(ctxTick).(brc20.Tick)
}
