package server

import (
	"net/http"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/setavenger/brc20-ledger/internal/brc20"
	"github.com/setavenger/brc20-ledger/internal/config"
	"github.com/setavenger/brc20-ledger/internal/database/dbpebble"
	"github.com/setavenger/brc20-ledger/internal/logging"
)

type ApiHandler struct {
	Store  *dbpebble.Store
	Params *chaincfg.Params
}

func NewApiHandler(store *dbpebble.Store, params *chaincfg.Params) *ApiHandler {
	return &ApiHandler{Store: store, Params: params}
}

// abortWithStoreError logs err and answers 500. Decode errors point at
// corrupt records, so they are logged with the offending key.
func abortWithStoreError(c *gin.Context, err error, msg string) {
	var decodeErr *dbpebble.DecodeError
	var tableErr *dbpebble.TableError
	switch {
	case errors.As(err, &decodeErr):
		logging.L.Error().Err(decodeErr.Err).Str("table", decodeErr.Table).Hex("key", decodeErr.Key).Msg(msg)
	case errors.As(err, &tableErr):
		logging.L.Error().Err(err).Str("table", tableErr.Table).Msg(msg)
	default:
		logging.L.Err(err).Msg(msg)
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "could not retrieve data from database",
	})
}

func (h *ApiHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Network: config.ChainToString(config.Chain),
		Tables:  dbpebble.TableNames(),
	})
}

// tokenDecimals fetches the token infos for the given ticks so amounts can
// be displayed. Unknown ticks are left out.
func tokenDecimals(r brc20.LedgerReader, ticks []brc20.Tick) (map[brc20.Tick]*brc20.TokenInfo, error) {
	out := make(map[brc20.Tick]*brc20.TokenInfo, len(ticks))
	for _, tick := range ticks {
		lower := tick.Lower()
		if _, ok := out[lower]; ok {
			continue
		}
		info, err := r.GetTokenInfo(tick)
		if err != nil {
			return nil, err
		}
		out[lower] = info
	}
	return out, nil
}

func (h *ApiHandler) GetBalances(c *gin.Context) {
	r := readerFrom(c)
	balances, err := r.GetBalances(ownerFrom(c))
	if err != nil {
		abortWithStoreError(c, err, "error fetching balances")
		return
	}

	ticks := make([]brc20.Tick, len(balances))
	for i := range balances {
		ticks[i] = balances[i].Tick
	}
	tokens, err := tokenDecimals(r, ticks)
	if err != nil {
		abortWithStoreError(c, err, "error fetching token info")
		return
	}

	resp := make([]BalanceResponse, len(balances))
	for i := range balances {
		resp[i] = NewBalanceResponse(&balances[i], tokens[balances[i].Tick.Lower()])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ApiHandler) GetBalance(c *gin.Context) {
	r := readerFrom(c)
	tick := tickFrom(c)
	balance, err := r.GetBalance(ownerFrom(c), tick)
	if err != nil {
		abortWithStoreError(c, err, "error fetching balance")
		return
	}
	if balance == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "balance not found"})
		return
	}
	token, err := r.GetTokenInfo(tick)
	if err != nil {
		abortWithStoreError(c, err, "error fetching token info")
		return
	}
	c.JSON(http.StatusOK, NewBalanceResponse(balance, token))
}

func (h *ApiHandler) GetTokens(c *gin.Context) {
	tokens, err := readerFrom(c).GetTokensInfo()
	if err != nil {
		abortWithStoreError(c, err, "error fetching tokens")
		return
	}
	resp := make([]TokenResponse, len(tokens))
	for i := range tokens {
		resp[i] = NewTokenResponse(&tokens[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ApiHandler) GetToken(c *gin.Context) {
	token, err := readerFrom(c).GetTokenInfo(tickFrom(c))
	if err != nil {
		abortWithStoreError(c, err, "error fetching token")
		return
	}
	if token == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}
	c.JSON(http.StatusOK, NewTokenResponse(token))
}

func (h *ApiHandler) GetReceipts(c *gin.Context) {
	txid, err := chainhash.NewHashFromStr(c.Param("txid"))
	if err != nil || len(c.Param("txid")) != chainhash.MaxHashStringSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse txid"})
		return
	}
	receipts, err := readerFrom(c).GetTransactionReceipts(txid)
	if err != nil {
		abortWithStoreError(c, err, "error fetching receipts")
		return
	}
	resp := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		resp[i] = NewReceiptResponse(&receipts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func transferableResponses(logs []brc20.TransferableLog) []TransferableResponse {
	resp := make([]TransferableResponse, len(logs))
	for i := range logs {
		resp[i] = NewTransferableResponse(&logs[i])
	}
	return resp
}

func (h *ApiHandler) GetTransferable(c *gin.Context) {
	logs, err := readerFrom(c).GetTransferable(ownerFrom(c))
	if err != nil {
		abortWithStoreError(c, err, "error fetching transferable logs")
		return
	}
	c.JSON(http.StatusOK, transferableResponses(logs))
}

func (h *ApiHandler) GetTransferableByTick(c *gin.Context) {
	logs, err := readerFrom(c).GetTransferableByTick(ownerFrom(c), tickFrom(c))
	if err != nil {
		abortWithStoreError(c, err, "error fetching transferable logs")
		return
	}
	c.JSON(http.StatusOK, transferableResponses(logs))
}

func (h *ApiHandler) GetTransferableByID(c *gin.Context) {
	id, err := brc20.ParseInscriptionId(c.Param("inscription"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse inscription id"})
		return
	}
	log, err := readerFrom(c).GetTransferableByID(ownerFrom(c), tickFrom(c), id)
	if err != nil {
		abortWithStoreError(c, err, "error fetching transferable log")
		return
	}
	if log == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transferable log not found"})
		return
	}
	c.JSON(http.StatusOK, NewTransferableResponse(log))
}
