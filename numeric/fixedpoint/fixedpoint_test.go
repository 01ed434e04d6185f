package fixedpoint_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stablekit/numeric/fixedpoint"
)

func TestAddSub(t *testing.T) {
	a := fixedpoint.FromInt64(3)
	b := fixedpoint.FromInt64(2)
	require.Equal(t, fixedpoint.FromInt64(5).Bits(), a.Add(b).Bits())
	require.Equal(t, fixedpoint.FromInt64(1).Bits(), a.Sub(b).Bits())
}

func TestMulTruncatesTowardZero(t *testing.T) {
	// 1.5 * 1.5 = 2.25, exact; no truncation to observe there. Use a
	// fraction that doesn't divide evenly instead: 1/3 * 3 should be
	// slightly less than 1 after truncation, not more.
	third, err := fixedpoint.FromInt64(1).Div(fixedpoint.FromInt64(3))
	require.NoError(t, err)
	product := third.Mul(fixedpoint.FromInt64(3))
	require.True(t, product.Cmp(fixedpoint.FromInt64(1)) <= 0)
}

func TestDivByZero(t *testing.T) {
	_, err := fixedpoint.FromInt64(1).Div(fixedpoint.Zero())
	require.ErrorIs(t, err, fixedpoint.ErrDivideByZero)
}

func TestDivTruncationNegative(t *testing.T) {
	// -1 / 3 is a repeating fraction; truncation toward zero must round the
	// magnitude down (toward zero), not floor it (more negative).
	got, err := fixedpoint.FromInt64(-1).Div(fixedpoint.FromInt64(3))
	require.NoError(t, err)
	wantBits, _ := new(big.Int).SetString("-6148914691236517205", 10)
	require.Equal(t, wantBits, got.Bits())
}

func TestPow(t *testing.T) {
	require.Equal(t, 0, fixedpoint.Pow(fixedpoint.FromInt64(5), 0).Cmp(fixedpoint.One()))
	two := fixedpoint.FromInt64(2)
	require.Equal(t, 0, fixedpoint.Pow(two, 1).Cmp(two))
	require.Equal(t, 0, fixedpoint.Pow(two, 3).Cmp(fixedpoint.FromInt64(8)))
}

func TestExp(t *testing.T) {
	a := fixedpoint.FromInt64(1)
	got := fixedpoint.Exp(a)
	require.Equal(t, 0, got.Cmp(fixedpoint.FromInt64(2)))
}

func TestHexStringRoundTrip(t *testing.T) {
	values := []fixedpoint.Value{
		fixedpoint.FromInt64(0),
		fixedpoint.FromInt64(1),
		fixedpoint.FromInt64(-1),
		fixedpoint.FromInt64(255),
	}
	for _, v := range values {
		s := v.HexString()
		parsed, err := fixedpoint.ParseHex(s)
		require.NoError(t, err)
		require.Equal(t, 0, v.Cmp(parsed), "round trip of %s", s)
	}
}

func TestParseHexFraction(t *testing.T) {
	// 0x0.8000000000000000 == 0.5
	v, err := fixedpoint.ParseHex("0.8000000000000000")
	require.NoError(t, err)
	half, err := fixedpoint.FromInt64(1).Div(fixedpoint.FromInt64(2))
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(half))
}

func TestParseHexNegative(t *testing.T) {
	v, err := fixedpoint.ParseHex("-1.0000000000000000")
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(fixedpoint.FromInt64(-1)))
}

func TestClamp(t *testing.T) {
	lo := fixedpoint.FromInt64(0)
	hi := fixedpoint.FromInt64(10)
	require.Equal(t, 0, fixedpoint.Clamp(fixedpoint.FromInt64(-5), lo, hi).Cmp(lo))
	require.Equal(t, 0, fixedpoint.Clamp(fixedpoint.FromInt64(15), lo, hi).Cmp(hi))
	require.Equal(t, 0, fixedpoint.Clamp(fixedpoint.FromInt64(5), lo, hi).Cmp(fixedpoint.FromInt64(5)))
}
