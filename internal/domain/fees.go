package domain

import (
	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

var lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)

// Default fee constants, in SOL.
var (
	DefaultBaseCost         = decimal.RequireFromString("0.25")
	DefaultRevokeExtra      = decimal.RequireFromString("0.05")
	DefaultNetworkFeeBuffer = decimal.RequireFromString("0.002")
)

// FeePolicy holds the configured prices used to derive a FeeSchedule.
type FeePolicy struct {
	BaseCost         decimal.Decimal
	RevokeExtra      decimal.Decimal
	NetworkFeeBuffer decimal.Decimal
}

// DefaultFeePolicy returns the stock prices.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		BaseCost:         DefaultBaseCost,
		RevokeExtra:      DefaultRevokeExtra,
		NetworkFeeBuffer: DefaultNetworkFeeBuffer,
	}
}

// FeeSchedule is derived per request and never stored.
type FeeSchedule struct {
	BaseCost         decimal.Decimal
	RevokeFreeze     decimal.Decimal
	RevokeMint       decimal.Decimal
	NetworkFeeBuffer decimal.Decimal
}

// Schedule derives the fee schedule for the given revocation flags.
func (p FeePolicy) Schedule(revokeFreeze, revokeMint bool) FeeSchedule {
	fs := FeeSchedule{
		BaseCost:         p.BaseCost,
		RevokeFreeze:     decimal.Zero,
		RevokeMint:       decimal.Zero,
		NetworkFeeBuffer: p.NetworkFeeBuffer,
	}
	if revokeFreeze {
		fs.RevokeFreeze = p.RevokeExtra
	}
	if revokeMint {
		fs.RevokeMint = p.RevokeExtra
	}
	return fs
}

// Total returns the advertised cost in SOL, excluding the network buffer.
func (f FeeSchedule) Total() decimal.Decimal {
	return f.BaseCost.Add(f.RevokeFreeze).Add(f.RevokeMint)
}

// RequiredLamports returns total cost plus the network buffer in lamports.
func (f FeeSchedule) RequiredLamports() uint64 {
	return SOLToLamports(f.Total().Add(f.NetworkFeeBuffer))
}

// SOLToLamports converts SOL to lamports, truncating sub-lamport fractions.
func SOLToLamports(sol decimal.Decimal) uint64 {
	if sol.IsNegative() {
		return 0
	}
	return sol.Mul(lamportsPerSOL).Truncate(0).BigInt().Uint64()
}

// LamportsToSOL converts lamports to SOL.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSOL)
}
