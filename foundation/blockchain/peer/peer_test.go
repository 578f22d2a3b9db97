package peer_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host3"}, {Host: "host1"}, {Host: "host2"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				ps.Add(peer)
			}

			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould not add the same peer twice.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			if peers[0].Host != "host1" || peers[2].Host != "host3" {
				t.Fatalf("Test %s:\tShould get back the peers sorted by host: %v", tst.name, peers)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			ps.Remove(peer.Peer{Host: "host2"})
			if ps.Len() != len(tst.peers)-1 {
				t.Fatalf("Test %s:\tShould be able to remove a peer.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_New(t *testing.T) {
	t.Log("Given the need to normalize peer hosts.")
	{
		tt := []struct {
			host string
			exp  string
		}{
			{"0.0.0.0:9080", "0.0.0.0:9080"},
			{"http://0.0.0.0:9080", "0.0.0.0:9080"},
			{"http://localhost:9280/", "localhost:9280"},
			{" localhost:9380 ", "localhost:9380"},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling host %q.", testID, tst.host)
			{
				got := peer.New(tst.host)
				if got.Host != tst.exp {
					t.Logf("\t\tTest %d:\tgot: %s", testID, got.Host)
					t.Logf("\t\tTest %d:\texp: %s", testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get back the normalized host.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the normalized host.", success, testID)
			}
		}
	}

	ps := peer.NewPeerSet("localhost:9080", "", "http://localhost:9080")
	if ps.Len() != 1 {
		t.Fatalf("\t%s\tShould collapse duplicate hosts: got %d", failed, ps.Len())
	}
}
