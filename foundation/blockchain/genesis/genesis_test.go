package genesis_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	const content = `{
	"date": "2026-10-01T00:00:00.000000000Z",
	"authority": "0x9f3a5c1e6c3d1b0e5a7e9a3b6f4c2d1e0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d",
	"trans_per_block": 2,
	"difficulty": 6,
	"mining_reward": 10
}`

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %s", err)
	}

	gen, err := genesis.Load(path)
	if err != nil {
		t.Fatalf("Should be able to load the genesis file: %s", err)
	}

	if gen.Difficulty != 6 || gen.TransPerBlock != 2 || gen.MiningReward != 10 {
		t.Logf("got: %+v", gen)
		t.Fatalf("Should get back the policy values from the file.")
	}

	if gen.BatchSize() != 2 {
		t.Fatalf("Should get back a batch size of 2, got %d", gen.BatchSize())
	}
}

func Test_Validate(t *testing.T) {
	tt := []struct {
		name string
		gen  genesis.Genesis
		ok   bool
	}{
		{name: "valid", gen: genesis.Genesis{Authority: "0x01", Difficulty: 8}, ok: true},
		{name: "authority", gen: genesis.Genesis{Difficulty: 8}},
		{name: "difficulty", gen: genesis.Genesis{Authority: "0x01", Difficulty: 257}},
		{name: "reward", gen: genesis.Genesis{Authority: "0x01", MiningReward: -1}},
		{name: "nan", gen: genesis.Genesis{Authority: "0x01", MiningReward: math.NaN()}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := tst.gen.Validate()
			if tst.ok && err != nil {
				t.Fatalf("Test %s:\tShould be valid: %s", tst.name, err)
			}
			if !tst.ok && err == nil {
				t.Fatalf("Test %s:\tShould not be valid.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_OverrideDifficulty(t *testing.T) {
	tt := []struct {
		name       string
		difficulty int
		want       uint16
		ok         bool
	}{
		{name: "keep", difficulty: -1, want: 6, ok: true},
		{name: "zero", difficulty: 0, want: 0, ok: true},
		{name: "max", difficulty: 256, want: 256, ok: true},
		{name: "over", difficulty: 257, want: 6},
		{name: "wrap", difficulty: 65544, want: 6},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			gen := genesis.Genesis{Authority: "0x01", Difficulty: 6}

			err := gen.OverrideDifficulty(tst.difficulty)
			if tst.ok && err != nil {
				t.Fatalf("Test %s:\tShould accept the difficulty: %s", tst.name, err)
			}
			if !tst.ok && err == nil {
				t.Fatalf("Test %s:\tShould reject the difficulty.", tst.name)
			}
			if gen.Difficulty != tst.want {
				t.Fatalf("Test %s:\tShould get back difficulty %d, got %d", tst.name, tst.want, gen.Difficulty)
			}
		}

		t.Run(tst.name, f)
	}
}
