package controller

import (
	"math/big"

	"stablekit/numeric/ratio"
)

// Constants are the protocol parameters fixed at genesis.
// genesis.Genesis decodes a TOML document into values of this shape; the
// defaults here match the reference figures of the protocol this system
// models (Tezos' Checker CDP system), which this repository's worked
// controller test is drawn from.
type Constants struct {
	// SecondsInADay and SecondsInAYear are the time-unit denominators used
	// throughout the controller's rate constants.
	SecondsInADay  int64
	SecondsInAYear int64

	// ProtectedIndexEpsilon bounds the per-second relative movement of the
	// protected index (step 1).
	ProtectedIndexEpsilon ratio.Value

	// TargetLowBracket and TargetHighBracket are the drift-derivative
	// decision brackets (step 2); the inner brackets are exp(±low), the
	// outer exp(±high).
	TargetLowBracket  ratio.Value
	TargetHighBracket ratio.Value

	// BurrowFeePercentage is the annual burrow-fee rate (step 6).
	BurrowFeePercentage ratio.Value

	// ImbalanceSensitivity is the 0.01 scaling constant in step 7.
	ImbalanceSensitivity ratio.Value

	// ImbalanceClampFactor is the 5 in "clamp(d, ±5·outstanding)" (step 7).
	ImbalanceClampFactor ratio.Value

	// AMMFeeNumerator / AMMFeeDenominator express the AMM's 0.2% fee as the
	// 998/1000 multiplier used in the constant-product formulas (§4.5).
	AMMFeeNumerator   int64
	AMMFeeDenominator int64
}

// DefaultConstants returns the reference protocol constants.
func DefaultConstants() Constants {
	return Constants{
		SecondsInADay:         86400,
		SecondsInAYear:        31536000,
		ProtectedIndexEpsilon: ratio.FromFrac(big.NewInt(5), big.NewInt(10000)),
		TargetLowBracket:      ratio.FromFrac(big.NewInt(5), big.NewInt(1000)),
		TargetHighBracket:     ratio.FromFrac(big.NewInt(5), big.NewInt(100)),
		BurrowFeePercentage:   ratio.FromFrac(big.NewInt(5), big.NewInt(1000)),
		ImbalanceSensitivity:  ratio.FromFrac(big.NewInt(1), big.NewInt(100)),
		ImbalanceClampFactor:  ratio.FromInt64(5),
		AMMFeeNumerator:       998,
		AMMFeeDenominator:     1000,
	}
}

// daySquared returns seconds_in_a_day² as an exact ratio, the denominator
// of the small/large drift-derivative move constants (step 2).
func (c Constants) daySquared() ratio.Value {
	days := ratio.FromInt64(c.SecondsInADay)
	return days.Mul(days)
}

// driftSmallMove and driftLargeMove are the 0.0001 and 0.0005 per-day²
// drift-derivative magnitudes used by driftDerivative's bucket classification.
func (c Constants) driftSmallMove() ratio.Value {
	return ratio.FromFrac(big.NewInt(1), big.NewInt(10000)).Quo(c.daySquared())
}

func (c Constants) driftLargeMove() ratio.Value {
	return ratio.FromFrac(big.NewInt(5), big.NewInt(10000)).Quo(c.daySquared())
}
