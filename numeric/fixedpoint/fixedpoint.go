// Package fixedpoint implements the 2⁻⁶⁴-scaled signed fixed-point
// arithmetic used throughout the controller and the AVL liquidation
// queue's collateral accounting.
package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ScaleBits is the number of fractional bits: a Value's underlying integer
// is a multiple of 2^-ScaleBits.
const ScaleBits = 64

// ErrDivideByZero is returned by Div when the divisor is the zero value.
var ErrDivideByZero = errors.New("fixedpoint: division by zero")

var scale = new(big.Int).Lsh(big.NewInt(1), ScaleBits)

// Value is a signed fixed-point number: bits / 2^ScaleBits.
type Value struct {
	bits *big.Int
}

// FromBits wraps a raw scaled integer without reinterpreting it.
func FromBits(bits *big.Int) Value {
	if bits == nil {
		return Value{bits: new(big.Int)}
	}
	return Value{bits: new(big.Int).Set(bits)}
}

// Bits returns the raw scaled integer backing v.
func (v Value) Bits() *big.Int {
	if v.bits == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.bits)
}

// FromInt64 constructs the fixed-point representation of an integer.
func FromInt64(i int64) Value {
	return Value{bits: new(big.Int).Lsh(big.NewInt(i), ScaleBits)}
}

// Zero is the additive identity.
func Zero() Value { return Value{bits: new(big.Int)} }

// One is the multiplicative identity, pow(x, 0) for any x.
func One() Value { return Value{bits: new(big.Int).Set(scale)} }

func (v Value) norm() *big.Int {
	if v.bits == nil {
		return new(big.Int)
	}
	return v.bits
}

// Add returns v + w, exactly.
func (v Value) Add(w Value) Value {
	return Value{bits: new(big.Int).Add(v.norm(), w.norm())}
}

// Sub returns v - w, exactly.
func (v Value) Sub(w Value) Value {
	return Value{bits: new(big.Int).Sub(v.norm(), w.norm())}
}

// Neg returns -v.
func (v Value) Neg() Value {
	return Value{bits: new(big.Int).Neg(v.norm())}
}

// Mul returns v * w, truncated toward zero.
func (v Value) Mul(w Value) Value {
	product := new(big.Int).Mul(v.norm(), w.norm())
	return Value{bits: product.Quo(product, scale)}
}

// Div returns v / w, truncated toward zero. It returns ErrDivideByZero when
// w is the zero value.
func (v Value) Div(w Value) (Value, error) {
	if w.Sign() == 0 {
		return Value{}, ErrDivideByZero
	}
	numerator := new(big.Int).Lsh(v.norm(), ScaleBits)
	return Value{bits: numerator.Quo(numerator, w.norm())}, nil
}

// Pow raises x to the non-negative integer power n. pow(x, 0) = 1; for
// n >= 1, pow(x, n) = x^n / scaling^(n-1), computed by n-1 fixed-point
// multiplications so every intermediate truncation matches Mul's.
func Pow(x Value, n uint) Value {
	if n == 0 {
		return One()
	}
	result := x
	for i := uint(1); i < n; i++ {
		result = result.Mul(x)
	}
	return result
}

// Exp returns the first-order Taylor approximation 1 + a.
func Exp(a Value) Value {
	return One().Add(a)
}

// Sign returns -1, 0, or 1 matching the sign of v.
func (v Value) Sign() int { return v.norm().Sign() }

// Cmp compares v and w per big.Int.Cmp semantics.
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

// HexString renders v as "[-]HEX.HEX" with the fractional part padded to
// exactly ScaleBits/4 hex digits, per the protocol's wire layout. The raw
// hex digit encoding is delegated to hexutil.
func (v Value) HexString() string {
	bits := v.norm()
	neg := bits.Sign() < 0
	abs := new(big.Int).Abs(bits)

	intPart := new(big.Int).Rsh(abs, ScaleBits)
	frac := new(big.Int).Sub(abs, new(big.Int).Lsh(intPart, ScaleBits))

	intHex := "0"
	if intPart.Sign() != 0 {
		intHex = strings.TrimPrefix(hexutil.Encode(intPart.Bytes()), "0x")
	}

	fracBytes := frac.FillBytes(make([]byte, ScaleBits/8))
	fracHex := strings.TrimPrefix(hexutil.Encode(fracBytes), "0x")

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%s", sign, intHex, fracHex)
}

// ParseHex parses the "[-]HEX.HEX" form produced by HexString. The
// fractional part, if present, is interpreted as exactly len(frac) hex
// digits scaled by 16^-len(frac), i.e. it must describe a multiple of
// 2^-ScaleBits exactly; an odd number of hex digits is accepted by
// nibble-padding before the byte-aligned hexutil decode.
func ParseHex(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("fixedpoint: empty hex string")
	}

	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}

	intHex, fracHex, hasFrac := strings.Cut(s, ".")
	if intHex == "" {
		intHex = "0"
	}

	intPart, err := decodeHexDigits(intHex)
	if err != nil {
		return Value{}, fmt.Errorf("fixedpoint: integer part: %w", err)
	}

	bits := new(big.Int).Lsh(intPart, ScaleBits)

	if hasFrac {
		digits := len(fracHex)
		if digits > ScaleBits/4 {
			return Value{}, fmt.Errorf("fixedpoint: fractional part has %d hex digits, max %d", digits, ScaleBits/4)
		}
		fracValue, err := decodeHexDigits(fracHex)
		if err != nil {
			return Value{}, fmt.Errorf("fixedpoint: fractional part: %w", err)
		}
		// fracValue is scaled by 16^digits; rescale up to 2^ScaleBits.
		shiftBits := uint(ScaleBits - 4*digits)
		fracValue.Lsh(fracValue, shiftBits)
		bits.Add(bits, fracValue)
	}

	if neg {
		bits.Neg(bits)
	}
	return Value{bits: bits}, nil
}

func decodeHexDigits(digits string) (*big.Int, error) {
	if digits == "" {
		return new(big.Int), nil
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hexutil.Decode("0x" + digits)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}
