package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// Set of routes on the private node API this package talks to.
const (
	routeProposeBlock = "/v1/node/block/propose"
	routeSubmitTx     = "/v1/node/tx/submit"
	routeStatus       = "/v1/node/status"
)

// HeaderNodeAccount carries the account of the node making the request.
const HeaderNodeAccount = "X-Node-Account"

// maxConcurrentSends bounds how many peers are contacted at the same time.
const maxConcurrentSends = 8

// =============================================================================

// HTTP sends blocks and transactions to the known peers. It implements
// the state.Network interface.
type HTTP struct {
	identity  Identity
	peers     *peer.PeerSet
	client    *resty.Client
	evHandler func(v string, args ...any)
}

// NewHTTP constructs the broadcaster for the node identity.
func NewHTTP(identity Identity, peers *peer.PeerSet, timeout time.Duration, evHandler func(v string, args ...any)) *HTTP {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderNodeAccount, string(identity.Account))

	return &HTTP{
		identity:  identity,
		peers:     peers,
		client:    client,
		evHandler: evHandler,
	}
}

// Identity returns the identity requests are sent with.
func (h *HTTP) Identity() Identity {
	return h.identity
}

// SendBlockToPeers proposes the mined block to every known peer.
func (h *HTTP) SendBlockToPeers(block database.Block, hash database.Hash) error {
	return h.broadcast("SendBlockToPeers", routeProposeBlock, block)
}

// SendTxToPeers shares the transaction with every known peer.
func (h *HTTP) SendTxToPeers(tx database.SignedTx) error {
	return h.broadcast("SendTxToPeers", routeSubmitTx, tx)
}

// QueryStatus asks the peer for the status of its chain.
func (h *HTTP) QueryStatus(pr peer.Peer) (peer.Status, error) {
	resp, err := h.client.R().
		Get(url(pr, routeStatus))
	if err != nil {
		return peer.Status{}, err
	}

	if err := checkResponse(resp); err != nil {
		return peer.Status{}, err
	}

	var status peer.Status
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return peer.Status{}, fmt.Errorf("decoding status: %w", err)
	}

	return status, nil
}

// =============================================================================

// broadcast posts the value to every known peer. A failing peer doesn't stop
// the others, every failure is returned together.
func (h *HTTP) broadcast(op string, route string, v any) error {
	peers := h.peers.Copy(h.identity.Host)

	var mu sync.Mutex
	var errs []error

	var g errgroup.Group
	g.SetLimit(maxConcurrentSends)

	for _, pr := range peers {
		pr := pr
		g.Go(func() error {
			h.evHandler("network: %s: send: peer[%s]", op, pr.Host)

			if err := h.post(pr, route, v); err != nil {
				h.evHandler("network: %s: WARNING: peer[%s]: %s", op, pr.Host, err)

				mu.Lock()
				errs = append(errs, fmt.Errorf("peer %s: %w", pr.Host, err))
				mu.Unlock()
			}

			return nil
		})
	}

	g.Wait()

	return errors.Join(errs...)
}

// post sends the value as a JSON body to the peer.
func (h *HTTP) post(pr peer.Peer, route string, v any) error {
	resp, err := h.client.R().
		SetBody(v).
		Post(url(pr, route))
	if err != nil {
		return err
	}

	return checkResponse(resp)
}

// checkResponse turns a non success status into an error carrying the
// body the peer sent back.
func checkResponse(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return nil
	}

	return fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
}

// url builds the address of the route on the peer.
func url(pr peer.Peer, route string) string {
	return fmt.Sprintf("http://%s%s", pr.Host, route)
}
