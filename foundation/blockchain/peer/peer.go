// Package peer maintains the set of other nodes this node knows about and
// the status a node reports about itself.
package peer

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New constructs a peer from a host. A scheme or trailing slash on the host
// is stripped so the same node always produces the same peer.
func New(host string) Peer {
	host = strings.TrimSpace(host)
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}

	return Peer{
		Host: strings.TrimSuffix(host, "/"),
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// =============================================================================

// Status represents what a node reports about its copy of the chain.
type Status struct {
	LatestBlockHash   string `json:"latest_block_hash"`
	LatestBlockNumber int    `json:"latest_block_number"`
	MempoolLength     int    `json:"mempool_length"`
	KnownPeers        []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet(hosts ...string) *PeerSet {
	ps := PeerSet{
		set: make(map[Peer]struct{}),
	}

	for _, host := range hosts {
		if host == "" {
			continue
		}
		ps.set[New(host)] = struct{}{}
	}

	return &ps
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Len returns the number of peers in the set.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers sorted by host, leaving out the
// specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}
