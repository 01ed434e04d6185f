package controller

import (
	"time"

	"stablekit/numeric/fixedpoint"
	"stablekit/numeric/money"
)

// Parameters is the protocol's global state, replaced wholesale each tick
// by Touch. Nothing here is ever partially mutated in place from a
// semantic standpoint: a caller holding a Parameters value always
// holds a complete, internally consistent snapshot.
type Parameters struct {
	Q               fixedpoint.Value
	Index           money.Tez
	ProtectedIndex  money.Tez
	Target          fixedpoint.Value
	Drift           fixedpoint.Value
	DriftDerivative fixedpoint.Value
	BurrowFeeIndex  fixedpoint.Value
	ImbalanceIndex  fixedpoint.Value
	OutstandingKit  money.Kit
	CirculatingKit  money.Kit
	LastTouched     time.Time
}

// MakeInitial returns the day-zero Parameters: both accumulator indices at
// 1, q and target at 1, zero drift and zero outstanding/circulating kit.
func MakeInitial(ts time.Time) Parameters {
	return Parameters{
		Q:               fixedpoint.One(),
		Index:           money.TezFromFixedPoint(fixedpoint.One()),
		ProtectedIndex:  money.TezFromFixedPoint(fixedpoint.One()),
		Target:          fixedpoint.One(),
		Drift:           fixedpoint.Zero(),
		DriftDerivative: fixedpoint.Zero(),
		BurrowFeeIndex:  fixedpoint.One(),
		ImbalanceIndex:  fixedpoint.One(),
		OutstandingKit:  money.ZeroKit(),
		CirculatingKit:  money.ZeroKit(),
		LastTouched:     ts,
	}
}
