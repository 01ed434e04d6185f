// Package ratio implements the exact-rational type used wherever rounding
// in an intermediate step would compound across the controller's chained
// multiplications.
package ratio

import (
	"math/big"

	"stablekit/numeric/fixedpoint"
)

// Value is an exact numerator/denominator pair, always kept in lowest terms
// by the underlying big.Rat.
type Value struct {
	rat *big.Rat
}

func (v Value) norm() *big.Rat {
	if v.rat == nil {
		return new(big.Rat)
	}
	return v.rat
}

// Zero is the additive identity.
func Zero() Value { return Value{rat: new(big.Rat)} }

// One is the multiplicative identity.
func One() Value { return Value{rat: big.NewRat(1, 1)} }

// FromInt64 constructs the ratio n/1.
func FromInt64(n int64) Value { return Value{rat: new(big.Rat).SetInt64(n)} }

// FromFrac constructs the ratio num/den. It panics if den is zero, mirroring
// big.Rat.SetFrac's own contract; callers of this package never construct a
// zero-denominator ratio by construction.
func FromFrac(num, den *big.Int) Value {
	return Value{rat: new(big.Rat).SetFrac(num, den)}
}

// FromFixedPoint converts a fixed-point value into the exact ratio
// bits / 2^ScaleBits.
func FromFixedPoint(v fixedpoint.Value) Value {
	scale := new(big.Int).Lsh(big.NewInt(1), fixedpoint.ScaleBits)
	return Value{rat: new(big.Rat).SetFrac(v.Bits(), scale)}
}

// Add returns v + w, exactly.
func (v Value) Add(w Value) Value {
	return Value{rat: new(big.Rat).Add(v.norm(), w.norm())}
}

// Sub returns v - w, exactly.
func (v Value) Sub(w Value) Value {
	return Value{rat: new(big.Rat).Sub(v.norm(), w.norm())}
}

// Mul returns v * w, exactly.
func (v Value) Mul(w Value) Value {
	return Value{rat: new(big.Rat).Mul(v.norm(), w.norm())}
}

// Quo returns v / w, exactly. It panics if w is zero, matching big.Rat.Quo;
// every division site in the controller is structured so w is never zero.
func (v Value) Quo(w Value) Value {
	return Value{rat: new(big.Rat).Quo(v.norm(), w.norm())}
}

// Neg returns -v.
func (v Value) Neg() Value { return Value{rat: new(big.Rat).Neg(v.norm())} }

// Sign returns -1, 0, or 1 matching the sign of v.
func (v Value) Sign() int { return v.norm().Sign() }

// Cmp compares v and w per big.Rat.Cmp semantics.
func (v Value) Cmp(w Value) int { return v.norm().Cmp(w.norm()) }

// IsZero reports whether v is exactly zero.
func (v Value) IsZero() bool { return v.Sign() == 0 }

// Clamp returns v clamped into [lo, hi].
func Clamp(v, lo, hi Value) Value {
	if v.Cmp(lo) < 0 {
		return lo
	}
	if v.Cmp(hi) > 0 {
		return hi
	}
	return v
}

// OfRatioFloor converts v to the nearest fixed-point value not greater than
// v: floor(v * 2^ScaleBits) / 2^ScaleBits. This is the only conversion the
// controller uses.
func OfRatioFloor(v Value) fixedpoint.Value {
	scale := new(big.Int).Lsh(big.NewInt(1), fixedpoint.ScaleBits)
	scaled := new(big.Rat).Mul(v.norm(), new(big.Rat).SetInt(scale))
	num, den := scaled.Num(), scaled.Denom()
	bits := new(big.Int).Div(num, den) // big.Int.Div floors even for negative num.
	return fixedpoint.FromBits(bits)
}

// OfRatioCeil converts v to the nearest fixed-point value not less than v.
func OfRatioCeil(v Value) fixedpoint.Value {
	scale := new(big.Int).Lsh(big.NewInt(1), fixedpoint.ScaleBits)
	scaled := new(big.Rat).Mul(v.norm(), new(big.Rat).SetInt(scale))
	num, den := scaled.Num(), scaled.Denom()
	quo := new(big.Int).Div(num, den) // big.Int.Div floors (Euclidean quotient).
	mod := new(big.Int).Mod(num, den) // always >= 0.
	if mod.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return fixedpoint.FromBits(quo)
}
