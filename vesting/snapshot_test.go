package vesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oryxen/go-vesting/clock"
)

// TestSnapshot_RestoreContinuity exports an account mid-decay, rebuilds it
// on a fresh clock, and verifies the restored account behaves exactly like
// the uninterrupted original from then on.
func TestSnapshot_RestoreContinuity(t *testing.T) {
	clk, acct := newTestAccount(t, 0.01)

	acct.Deposit(1000)
	clk.Advance(10)
	acct.Claim()
	acct.Deposit(500)
	clk.Advance(3)

	snap := acct.Snapshot()

	clk2 := clock.NewLogical()
	clk2.Reset(snap.SnapshotAt)
	restored, err := Restore(clk2, snap)
	require.NoError(t, err)

	assert.Equal(t, acct.StillVesting(), restored.StillVesting())
	assert.Equal(t, acct.Claimable(), restored.Claimable())
	assert.Equal(t, acct.TotalClaimed(), restored.TotalClaimed())
	assert.Equal(t, acct.TotalDeposited(), restored.TotalDeposited())

	// Both accounts must keep decaying identically.
	clk.Advance(25)
	clk2.Advance(25)
	assert.Equal(t, acct.StillVesting(), restored.StillVesting())
	assert.Equal(t, acct.Claimable(), restored.Claimable())
	assert.Equal(t, acct.Claim(), restored.Claim())
	assertConserved(t, restored)
}

// TestSnapshot_Settles verifies that exporting settles first, so the
// exported principal and timestamp describe the same instant.
func TestSnapshot_Settles(t *testing.T) {
	clk, acct := newTestAccount(t, 0.01)
	acct.Deposit(100)
	clk.Advance(10)

	snap := acct.Snapshot()
	assert.Equal(t, clk.Now(), snap.SnapshotAt)
	assert.Equal(t, uint64(90), snap.Principal)
	assert.Equal(t, uint64(100), snap.TotalDeposited)
	assert.Equal(t, uint64(0), snap.TotalClaimed)
}

// TestRestore_Validation rejects snapshots whose figures cannot have come
// from a well-formed account.
func TestRestore_Validation(t *testing.T) {
	clk := clock.NewLogical()
	valid := Snapshot{DecayRate: 0.01, TotalDeposited: 100, TotalClaimed: 40, Principal: 50, SnapshotAt: 7}

	tests := []struct {
		name    string
		mutate  func(s Snapshot) Snapshot
		wantErr error
	}{
		{"valid", func(s Snapshot) Snapshot { return s }, nil},
		{"zero rate", func(s Snapshot) Snapshot { s.DecayRate = 0; return s }, ErrInvalidDecayRate},
		{"negative rate", func(s Snapshot) Snapshot { s.DecayRate = -1; return s }, ErrInvalidDecayRate},
		{"claimed exceeds deposited", func(s Snapshot) Snapshot { s.TotalClaimed = 101; return s }, ErrCorruptSnapshot},
		{"principal exceeds unclaimed", func(s Snapshot) Snapshot { s.Principal = 61; return s }, ErrCorruptSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := Restore(clk, tt.mutate(valid))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, acct)
				return
			}
			require.NoError(t, err)
			assertConserved(t, acct)
		})
	}

	t.Run("nil clock", func(t *testing.T) {
		_, err := Restore(nil, valid)
		assert.ErrorIs(t, err, ErrNilClock)
	})
}
