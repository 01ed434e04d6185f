// Package money defines Tez and Kit, two nominally distinct fixed-point
// scalars sharing the same 2⁻⁶⁴ scale. They are never implicitly
// interconvertible.
package money

import "stablekit/numeric/fixedpoint"

// Tez is the native coin: collateral and the AMM's counter-asset.
type Tez struct {
	v fixedpoint.Value
}

// Kit is the synthetic token minted by burrows.
type Kit struct {
	v fixedpoint.Value
}

// TezFromFixedPoint wraps a raw fixed-point amount as Tez.
func TezFromFixedPoint(v fixedpoint.Value) Tez { return Tez{v: v} }

// KitFromFixedPoint wraps a raw fixed-point amount as Kit.
func KitFromFixedPoint(v fixedpoint.Value) Kit { return Kit{v: v} }

// ZeroTez is the additive identity.
func ZeroTez() Tez { return Tez{v: fixedpoint.Zero()} }

// ZeroKit is the additive identity.
func ZeroKit() Kit { return Kit{v: fixedpoint.Zero()} }

// Mukit constructs a Kit amount from a count of micro-kit (10^-6 kit).
func Mukit(n int64) Kit {
	micro := fixedpoint.FromInt64(n)
	million, err := micro.Div(fixedpoint.FromInt64(1_000_000))
	if err != nil {
		panic(err) // 1_000_000 is never zero.
	}
	return Kit{v: million}
}

// Value exposes the underlying fixed-point amount.
func (t Tez) Value() fixedpoint.Value { return t.v }

// Value exposes the underlying fixed-point amount.
func (k Kit) Value() fixedpoint.Value { return k.v }

// Add returns t + u.
func (t Tez) Add(u Tez) Tez { return Tez{v: t.v.Add(u.v)} }

// Sub returns t - u.
func (t Tez) Sub(u Tez) Tez { return Tez{v: t.v.Sub(u.v)} }

// Cmp compares t and u per fixedpoint.Value.Cmp.
func (t Tez) Cmp(u Tez) int { return t.v.Cmp(u.v) }

// Sign returns -1, 0, or 1.
func (t Tez) Sign() int { return t.v.Sign() }

// IsZero reports whether t is exactly zero.
func (t Tez) IsZero() bool { return t.v.IsZero() }

// Min returns the lesser of t and u.
func (t Tez) Min(u Tez) Tez {
	if t.Cmp(u) <= 0 {
		return t
	}
	return u
}

// Add returns k + j.
func (k Kit) Add(j Kit) Kit { return Kit{v: k.v.Add(j.v)} }

// Sub returns k - j.
func (k Kit) Sub(j Kit) Kit { return Kit{v: k.v.Sub(j.v)} }

// Cmp compares k and j per fixedpoint.Value.Cmp.
func (k Kit) Cmp(j Kit) int { return k.v.Cmp(j.v) }

// Sign returns -1, 0, or 1.
func (k Kit) Sign() int { return k.v.Sign() }

// IsZero reports whether k is exactly zero.
func (k Kit) IsZero() bool { return k.v.IsZero() }
