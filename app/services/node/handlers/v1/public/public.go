// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitWalletTransaction adds new wallet transactions to the mempool.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req SubmitTx
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	signedTx, err := req.toSignedTx()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add wallet tran", "traceid", v.TraceID, "tx", signedTx, "to", signedTx.ReceiverKey, "amount", signedTx.Amount)
	if err := h.State.SubmitWalletTransaction(signedTx); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.QueryMempool()

	trans := make([]tx, len(mempool))
	for i, tran := range mempool {
		trans[i] = h.toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balances returns the current balances for all accounts or the one
// account specified.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accounts map[database.AccountID]float64

	switch acct := web.Param(r, "account"); acct {
	case "":
		accounts = h.State.QueryBalances()

	default:
		account, err := database.ToAccountID(acct)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		key, err := account.PublicKey()
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		accounts = map[database.AccountID]float64{
			key.AccountID(): h.State.QueryBalance(key),
		}
	}

	bals := make([]balance, 0, len(accounts))
	for account, bal := range accounts {
		bals = append(bals, balance{
			Account: account,
			Name:    h.NS.Lookup(account),
			Balance: bal,
		})
	}

	sort.Slice(bals, func(i, j int) bool {
		return bals[i].Account < bals[j].Account
	})

	latest, _ := h.State.QueryLatest()

	resp := balances{
		LatestBlock: latest.Hash(),
		Uncommitted: h.State.QueryMempoolLength(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the blocks in the range, or the whole chain when no
// range is given.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, to, err := blockRange(web.Param(r, "from"), web.Param(r, "to"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbBlocks := h.State.QueryBlocks(from, to)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for j, blk := range dbBlocks {
		trans := make([]tx, len(blk.Transactions))
		for i, tran := range blk.Transactions {
			trans[i] = h.toTx(tran)
		}

		payee := blk.Reward.PayeeKey.AccountID()

		blocks[j] = block{
			Number:       from + j,
			Hash:         blk.Hash(),
			PrevHash:     blk.PrevHash,
			Nonce:        blk.Nonce,
			PayeeID:      payee,
			PayeeName:    h.NS.Lookup(payee),
			Reward:       blk.Reward.Amount,
			Transactions: trans,
		}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// =============================================================================

func (h Handlers) toTx(tran database.SignedTx) tx {
	sender := tran.SenderKey.AccountID()
	receiver := tran.ReceiverKey.AccountID()

	return tx{
		ID:           tran.ID,
		Hash:         tran.Hash(),
		SenderID:     sender,
		SenderName:   h.NS.Lookup(sender),
		ReceiverID:   receiver,
		ReceiverName: h.NS.Lookup(receiver),
		Amount:       tran.Amount,
		Signature:    tran.Signature,
	}
}

// blockRange parses the from/to path values. Missing values mean the
// start and end of the chain.
func blockRange(fromStr string, toStr string) (int, int, error) {
	from, to := 0, -1

	if fromStr != "" {
		v, err := strconv.Atoi(fromStr)
		if err != nil || v < 0 {
			return 0, 0, errors.New("from must be a block number")
		}
		from = v
	}

	if toStr != "" && toStr != "latest" {
		v, err := strconv.Atoi(toStr)
		if err != nil || v < 0 {
			return 0, 0, errors.New("to must be a block number or latest")
		}
		to = v

		if from > to {
			return 0, 0, errors.New("from greater than to")
		}
	}

	return from, to, nil
}
