// Package vesting implements continuous exponential-decay vesting
// accounting for a single balance. Deposits join a still-vesting pool that
// decays toward zero as P(t) = P0·e^(−λt); whatever has decayed out of the
// pool counts as vested and, until withdrawn, claimable.
//
// Amounts are uint64 and all cumulative arithmetic saturates, so large
// balances clamp instead of wrapping. The engine is single-threaded:
// callers needing concurrency must serialize access to an Account
// externally.
package vesting

import (
	"errors"
	"log/slog"
	"math"

	"github.com/oryxen/go-vesting/clock"
)

// -----------------------------------------------------------------------------
// Units & Numeric Bounds
// -----------------------------------------------------------------------------

const (
	// SecondsPerDay converts a half-life expressed in days into the
	// seconds used by clock.Logical and clock.System. Rates and
	// half-lives must always share the clock's tick unit; this constant
	// makes the conversion explicit at the call site.
	SecondsPerDay = 86_400.0

	// decayCutoff bounds λ·Δ before exponentiation. Past this point
	// math.Exp underflows to zero for any representable principal, so the
	// still-vesting amount is exactly zero without computing the factor.
	decayCutoff = 745.0
)

// -----------------------------------------------------------------------------
// Log Keys
// -----------------------------------------------------------------------------

const (
	logKeyComponent = "component"
	logKeyAmount    = "amount"
	logKeyPrincipal = "principal"
	logKeyHalfLife  = "half_life"
	compVesting     = "vesting"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNilClock is returned when an Account is built without a time source.
	ErrNilClock = errors.New("vesting: clock must not be nil")

	// ErrInvalidDecayRate is returned for a decay rate that is not a
	// positive finite number.
	ErrInvalidDecayRate = errors.New("vesting: decay rate must be positive and finite")

	// ErrInvalidHalfLife is returned for a half-life that is not a
	// positive finite number.
	ErrInvalidHalfLife = errors.New("vesting: half-life must be positive and finite")

	// ErrCorruptSnapshot is returned when a restored snapshot violates the
	// accounting invariants.
	ErrCorruptSnapshot = errors.New("vesting: snapshot violates accounting invariants")
)

// DecayRateFromHalfLife converts a half-life into the equivalent
// instantaneous decay rate, both expressed against the clock's tick unit.
// A caller thinking in days while driving a per-second clock passes
// days*SecondsPerDay.
func DecayRateFromHalfLife(halfLife float64) float64 {
	return math.Ln2 / halfLife
}

// Account tracks one continuously vesting balance. Every operation reads
// "now" from the injected Clock, reconciles the still-vesting principal
// against elapsed time, and only then applies itself, so elapsed time is
// never double-counted or lost.
//
// Invariant: TotalDeposited == TotalClaimed + StillVesting + Claimable
// after every operation.
type Account struct {
	clk       clock.Clock
	decayRate float64 // per clock tick

	totalDeposited uint64 // cumulative, never decreases
	totalClaimed   uint64 // cumulative, never decreases

	principal  uint64 // still vesting as of snapshotAt
	snapshotAt uint64 // clock reading of the last settlement
}

// New returns an Account vesting at decayRate per clock tick, with nothing
// deposited yet. The rate must be positive and finite.
func New(clk clock.Clock, decayRate float64) (*Account, error) {
	if clk == nil {
		return nil, ErrNilClock
	}
	if !positiveFinite(decayRate) {
		return nil, ErrInvalidDecayRate
	}
	return &Account{
		clk:        clk,
		decayRate:  decayRate,
		snapshotAt: clk.Now(),
	}, nil
}

// NewWithHalfLife is New with the speed given as a half-life instead of a
// rate. The half-life is expressed in clock ticks, the same unit Now()
// counts in.
func NewWithHalfLife(clk clock.Clock, halfLife float64) (*Account, error) {
	if !positiveFinite(halfLife) {
		return nil, ErrInvalidHalfLife
	}
	return New(clk, DecayRateFromHalfLife(halfLife))
}

// DecayRate returns the current instantaneous decay rate per clock tick.
func (a *Account) DecayRate() float64 {
	return a.decayRate
}

// TotalDeposited returns the cumulative sum of all deposits ever made.
func (a *Account) TotalDeposited() uint64 {
	return a.totalDeposited
}

// TotalClaimed returns the cumulative sum of all amounts ever claimed.
func (a *Account) TotalClaimed() uint64 {
	return a.totalClaimed
}

// StillVesting reports the portion of all deposits that has not yet
// vested. It decays continuously and rounds down, so rounding only ever
// moves value toward the claimable side, never back into the pool.
func (a *Account) StillVesting() uint64 {
	return a.stillVestingAt(a.clk.Now())
}

// TotalVested reports everything that has vested since inception,
// claimed or not.
func (a *Account) TotalVested() uint64 {
	return subSat(a.totalDeposited, a.StillVesting())
}

// Claimable reports the amount a claim would pay out right now: vested
// minus already claimed.
func (a *Account) Claimable() uint64 {
	return subSat(a.TotalVested(), a.totalClaimed)
}

// UnclaimedTotal reports everything not yet claimed, i.e. the still-vesting
// pool plus the claimable balance.
func (a *Account) UnclaimedTotal() uint64 {
	return subSat(a.totalDeposited, a.totalClaimed)
}

// Settle reconciles elapsed time against the decay curve: the still-vesting
// amount is recomputed and snapshotted together with the clock reading that
// produced it, and returned. Settling twice at the same reading changes
// nothing. Every mutation settles first.
func (a *Account) Settle() uint64 {
	now := a.clk.Now()
	p := a.stillVestingAt(now)
	a.principal = p
	a.snapshotAt = now
	return p
}

// Deposit adds amount to the still-vesting pool. The account settles
// first, so claimable balance accrued before the deposit is untouched; the
// new amount then merges with the unvested remainder and the combined
// principal decays as a single curve from this instant forward.
func (a *Account) Deposit(amount uint64) {
	p := a.Settle()
	a.principal = addSat(p, amount)
	a.totalDeposited = addSat(a.totalDeposited, amount)
	slog.Debug("deposit",
		logKeyComponent, compVesting,
		logKeyAmount, amount,
		logKeyPrincipal, a.principal,
	)
}

// Claim withdraws everything currently claimable and returns it;
// Claimable is zero immediately afterwards. The still-vesting pool is
// unaffected. The subtraction order matches the accounting identity
// claimable = deposited − claimed − still-vesting, which keeps the claimed
// total from ever passing the deposited total.
func (a *Account) Claim() uint64 {
	p := a.Settle()
	amt := subSat(subSat(a.totalDeposited, a.totalClaimed), p)
	a.totalClaimed = addSat(a.totalClaimed, amt)
	slog.Debug("claim",
		logKeyComponent, compVesting,
		logKeyAmount, amt,
	)
	return amt
}

// SetHalfLife changes the vesting speed mid-life; halfLife is in clock
// ticks like the constructor's. The account settles under the old rate
// first, so decay already accrued is preserved and only the curve from
// this instant forward changes. On invalid input the account is left
// untouched.
func (a *Account) SetHalfLife(halfLife float64) error {
	if !positiveFinite(halfLife) {
		return ErrInvalidHalfLife
	}
	a.Settle()
	a.decayRate = DecayRateFromHalfLife(halfLife)
	slog.Debug("half-life changed",
		logKeyComponent, compVesting,
		logKeyHalfLife, halfLife,
	)
	return nil
}

// stillVestingAt evaluates the decay curve at the given clock reading:
// floor(principal·e^(−λ·Δ)) with Δ measured from the last settlement.
func (a *Account) stillVestingAt(now uint64) uint64 {
	if a.principal == 0 {
		return 0
	}
	elapsed := subSat(now, a.snapshotAt)
	x := a.decayRate * float64(elapsed)
	if x >= decayCutoff {
		return 0
	}
	remaining := math.Floor(float64(a.principal) * math.Exp(-x))
	if remaining <= 0 {
		return 0
	}
	if remaining >= float64(a.principal) {
		// Float widening of a large principal must never grow the pool.
		return a.principal
	}
	return uint64(remaining)
}

// positiveFinite reports whether v is a usable rate or half-life.
// NaN fails the comparison, so only the positive infinity needs checking.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
