package vesting

import "github.com/oryxen/go-vesting/clock"

// Snapshot is the complete numeric state of an Account. Callers that need
// accounts to survive a process restart persist a Snapshot however they
// like; the JSON tags cover the common case. The engine itself never
// touches storage.
type Snapshot struct {
	DecayRate      float64 `json:"decay_rate"`
	TotalDeposited uint64  `json:"total_deposited"`
	TotalClaimed   uint64  `json:"total_claimed"`
	Principal      uint64  `json:"principal"`
	SnapshotAt     uint64  `json:"snapshot_at"`
}

// Snapshot settles the account and returns its state. Settling first keeps
// the exported principal and timestamp consistent with each other.
func (a *Account) Snapshot() Snapshot {
	a.Settle()
	return Snapshot{
		DecayRate:      a.decayRate,
		TotalDeposited: a.totalDeposited,
		TotalClaimed:   a.totalClaimed,
		Principal:      a.principal,
		SnapshotAt:     a.snapshotAt,
	}
}

// Restore rebuilds an Account from a previously exported Snapshot, driven
// by clk from here on. The snapshot is validated against the accounting
// invariants before any field is adopted: the claimed total may not exceed
// the deposited total, and the still-vesting principal may not exceed the
// unclaimed remainder.
func Restore(clk clock.Clock, s Snapshot) (*Account, error) {
	if clk == nil {
		return nil, ErrNilClock
	}
	if !positiveFinite(s.DecayRate) {
		return nil, ErrInvalidDecayRate
	}
	if s.TotalClaimed > s.TotalDeposited {
		return nil, ErrCorruptSnapshot
	}
	if s.Principal > s.TotalDeposited-s.TotalClaimed {
		return nil, ErrCorruptSnapshot
	}
	return &Account{
		clk:            clk,
		decayRate:      s.DecayRate,
		totalDeposited: s.TotalDeposited,
		totalClaimed:   s.TotalClaimed,
		principal:      s.Principal,
		snapshotAt:     s.SnapshotAt,
	}, nil
}
