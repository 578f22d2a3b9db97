// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/network"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	State    *state.State
	Identity network.Identity
}

// SubmitNodeTransaction adds new node transactions to the mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a signed transaction.
	var tx database.SignedTx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	// Ask the state package to add this transaction to the mempool.
	h.Log.Infow("add node tran", "traceid", v.TraceID, "tx", tx, "from", r.Header.Get(network.HeaderNodeAccount), "amount", tx.Amount)
	if err := h.State.SubmitNodeTransaction(tx); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ProposeBlock takes a block received from a peer, validates it and
// if that passes, adds the block to the local blockchain.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a block.
	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("propose block", "traceid", v.TraceID, "from", r.Header.Get(network.HeaderNodeAccount), "prevhash", block.PrevHash, "txs", len(block.Transactions))

	// Ask the state package to validate the proposed block. If the block
	// passes validation, it will be added to the blockchain database.
	if err := h.State.ProcessProposedBlock(block); err != nil {
		trusted := errs.FromLedger(err)
		if !errs.IsTrusted(trusted) {
			trusted = errs.NewTrusted(err, http.StatusNotAcceptable)
		}
		return trusted
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock, number := h.State.QueryLatest()

	status := peer.Status{
		LatestBlockHash:   latestBlock.Hash().String(),
		LatestBlockNumber: number,
		MempoolLength:     h.State.QueryMempoolLength(),
		KnownPeers:        h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := strconv.Atoi(web.Param(r, "from"))
	if err != nil || from < 0 {
		return errs.NewTrusted(errors.New("from must be a block number"), http.StatusBadRequest)
	}

	to := -1
	if toStr := web.Param(r, "to"); toStr != "latest" {
		to, err = strconv.Atoi(toStr)
		if err != nil || to < 0 {
			return errs.NewTrusted(errors.New("to must be a block number or latest"), http.StatusBadRequest)
		}

		if from > to {
			return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
		}
	}

	blocks := h.State.QueryBlocks(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.QueryMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}
