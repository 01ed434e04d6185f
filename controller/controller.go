// Package controller implements the discrete-time parameter update that
// drives the synthetic's internal price target: load the previous
// cumulative indices, compute each per-tick factor as an exact rational,
// floor-convert once at the assignment boundary, derive an accrual, and
// fold it into running totals.
package controller

import (
	"math/big"
	"time"

	"stablekit/numeric/money"
	"stablekit/numeric/ratio"
)

// ratioExp is the controller's first-order Taylor approximation of exp(a),
// matching fixedpoint.Exp's contract (1 + a) but operating on exact
// rationals so the controller's seven chained multiplications never round
// until the final assignment.
func ratioExp(a ratio.Value) ratio.Value {
	return ratio.One().Add(a)
}

// driftDerivative classifies target against four exp(±bracket) thresholds
// and returns the corresponding per-day² move (see DESIGN.md's Open
// Question resolutions for why the boundary comparisons are a mix of
// strict and non-strict): the two outer buckets use non-strict comparisons
// against the high bracket, the two middle buckets use non-strict
// comparisons against the low bracket, and only the innermost bucket is a
// strict open interval.
func driftDerivative(target ratio.Value, c Constants) ratio.Value {
	lowPos := ratioExp(c.TargetLowBracket)
	lowNeg := ratioExp(c.TargetLowBracket.Neg())
	highPos := ratioExp(c.TargetHighBracket)
	highNeg := ratioExp(c.TargetHighBracket.Neg())

	small := c.driftSmallMove()
	large := c.driftLargeMove()

	switch {
	case target.Cmp(highNeg) <= 0:
		return large.Neg()
	case target.Cmp(lowNeg) <= 0:
		return small.Neg()
	case target.Cmp(lowPos) < 0:
		return ratio.Zero()
	case target.Cmp(highPos) < 0:
		return small
	default:
		return large
	}
}

// computeImbalance computes the imbalance percentage between outstanding
// and circulating kit. Its precondition — outstanding = 0 implies
// circulating = 0 — is the caller's invariant to maintain (see DESIGN.md's
// Open Question resolutions); Touch never defensively branches around a
// violation, it simply returns zero for the documented case.
func computeImbalance(outstanding, circulating ratio.Value, c Constants) ratio.Value {
	if outstanding.IsZero() {
		return ratio.Zero()
	}
	d := outstanding.Sub(circulating)
	bound := c.ImbalanceClampFactor.Mul(outstanding)
	clamped := ratio.Clamp(d, bound.Neg(), bound)
	return clamped.Mul(c.ImbalanceSensitivity).Quo(outstanding)
}

// Touch runs one tick of the parameter controller's twelve-step update,
// all in exact rationals until the final floor-conversion of each field. It
// returns the kit accrual to push into the AMM via amm.Pool.AddAccruedKit,
// and the replacement Parameters record.
func Touch(now time.Time, oracleIndex money.Tez, kitPriceInCoin ratio.Value, params Parameters, c Constants) (money.Kit, Parameters) {
	deltaNanos := now.Sub(params.LastTouched).Nanoseconds()
	if deltaNanos < 0 {
		panic("controller: Touch called with now before last_touched")
	}
	deltaT := ratio.FromFrac(big.NewInt(deltaNanos), big.NewInt(1_000_000_000))

	oracleRatio := ratio.FromFixedPoint(oracleIndex.Value())

	// Step 1: protected index.
	protectedOld := ratio.FromFixedPoint(params.ProtectedIndex.Value())
	relativeChange := oracleRatio.Quo(protectedOld)
	epsDt := c.ProtectedIndexEpsilon.Mul(deltaT)
	clamped := ratio.Clamp(relativeChange, ratioExp(epsDt.Neg()), ratioExp(epsDt))
	protectedNew := protectedOld.Mul(clamped)

	// Step 2: drift derivative, evaluated against the *old* target.
	targetOld := ratio.FromFixedPoint(params.Target)
	driftDerivNew := driftDerivative(targetOld, c)

	// Step 3: drift.
	driftOld := ratio.FromFixedPoint(params.Drift)
	driftDerivOld := ratio.FromFixedPoint(params.DriftDerivative)
	half := ratio.FromFrac(big.NewInt(1), big.NewInt(2))
	driftNew := driftOld.Add(half.Mul(driftDerivOld.Add(driftDerivNew)).Mul(deltaT))

	// Step 4: q.
	sixth := ratio.FromFrac(big.NewInt(1), big.NewInt(6))
	qExponentInner := driftOld.Add(sixth.Mul(driftDerivOld.Mul(ratio.FromInt64(2)).Add(driftDerivNew)).Mul(deltaT))
	qOld := ratio.FromFixedPoint(params.Q)
	qNew := qOld.Mul(ratioExp(qExponentInner.Mul(deltaT)))

	// Step 5: target.
	targetNew := qNew.Mul(oracleRatio).Quo(kitPriceInCoin)

	// Step 6: burrow-fee index.
	yearSecs := ratio.FromInt64(c.SecondsInAYear)
	bfiOld := ratio.FromFixedPoint(params.BurrowFeeIndex)
	bfiNew := bfiOld.Mul(ratio.One().Add(c.BurrowFeePercentage.Mul(deltaT).Quo(yearSecs)))

	// Step 7-8: imbalance index.
	outstandingOld := ratio.FromFixedPoint(params.OutstandingKit.Value())
	circulatingOld := ratio.FromFixedPoint(params.CirculatingKit.Value())
	imbalancePct := computeImbalance(outstandingOld, circulatingOld, c)
	iiOld := ratio.FromFixedPoint(params.ImbalanceIndex)
	iiNew := iiOld.Mul(ratio.One().Add(imbalancePct.Mul(deltaT).Quo(yearSecs)))

	// Step 9-12: burrow-fee accrual, then fold the imbalance index in.
	withBurrowFee := outstandingOld.Mul(bfiNew).Quo(bfiOld)
	accrual := withBurrowFee.Sub(outstandingOld)
	outstandingNew := withBurrowFee.Mul(iiNew).Quo(iiOld)
	circulatingNew := circulatingOld.Add(accrual)

	next := Parameters{
		Q:               ratio.OfRatioFloor(qNew),
		Index:           oracleIndex,
		ProtectedIndex:  money.TezFromFixedPoint(ratio.OfRatioFloor(protectedNew)),
		Target:          ratio.OfRatioFloor(targetNew),
		Drift:           ratio.OfRatioFloor(driftNew),
		DriftDerivative: ratio.OfRatioFloor(driftDerivNew),
		BurrowFeeIndex:  ratio.OfRatioFloor(bfiNew),
		ImbalanceIndex:  ratio.OfRatioFloor(iiNew),
		OutstandingKit:  money.KitFromFixedPoint(ratio.OfRatioFloor(outstandingNew)),
		CirculatingKit:  money.KitFromFixedPoint(ratio.OfRatioFloor(circulatingNew)),
		LastTouched:     now,
	}
	return money.KitFromFixedPoint(ratio.OfRatioFloor(accrual)), next
}
