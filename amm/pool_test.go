package amm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stablekit/amm"
	"stablekit/numeric/fixedpoint"
	"stablekit/numeric/money"
)

func tez(n int64) money.Tez { return money.TezFromFixedPoint(fixedpoint.FromInt64(n)) }

func TestBuyKitExpiredLeavesPoolUntouched(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))
	now := time.Unix(1000, 0)
	deadline := time.Unix(500, 0) // already in the past relative to now.

	_, next, err := pool.BuyKit(tez(10), money.ZeroKit(), now, deadline)
	require.ErrorIs(t, err, amm.ErrExpired)
	require.Equal(t, pool, next)
}

func TestBuyKitTooLittleKit(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))
	now := time.Unix(1000, 0)
	deadline := time.Unix(2000, 0)

	// Demand far more kit out than this tiny trade could ever produce.
	hugeMin := money.Mukit(1_000_000_000_000)
	_, next, err := pool.BuyKit(tez(1), hugeMin, now, deadline)
	require.ErrorIs(t, err, amm.ErrTooLittleKit)
	require.Equal(t, pool, next)
}

func TestBuyKitIncreasesCoinDecreasesKit(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))
	now := time.Unix(1000, 0)
	deadline := time.Unix(2000, 0)

	kitOut, next, err := pool.BuyKit(tez(10), money.ZeroKit(), now, deadline)
	require.NoError(t, err)
	require.True(t, kitOut.Sign() > 0)
	require.Equal(t, 0, next.Coin.Cmp(tez(1010)))
	require.True(t, next.Kit.Cmp(pool.Kit) < 0)
}

func TestSellKitIsBuyKitMirror(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))
	now := time.Unix(1000, 0)
	deadline := time.Unix(2000, 0)

	coinOut, next, err := pool.SellKit(money.Mukit(1_000_000), money.ZeroTez(), now, deadline)
	require.NoError(t, err)
	require.True(t, coinOut.Sign() > 0)
	require.True(t, next.Coin.Cmp(pool.Coin) < 0)
	require.Equal(t, 0, next.Kit.Cmp(pool.Kit.Add(money.Mukit(1_000_000))))
}

func TestBuyLiquidityMintsInExactRatio(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))

	// Depositing coin and kit in exactly the pool's current ratio (1000:1000,
	// since NewPool seeds 1 mukit per 10^-6 tez... here 1000 tez : 1000 kit)
	// should produce no refund on either side.
	minted, coinRefund, kitRefund, next, err := pool.BuyLiquidity(tez(100), money.Mukit(100_000_000))
	require.NoError(t, err)
	require.True(t, minted.Sign() > 0)
	require.True(t, coinRefund.IsZero())
	require.True(t, kitRefund.IsZero())
	require.Equal(t, 0, next.Coin.Cmp(tez(1100)))
}

func TestBuyLiquidityRefundsExcessSide(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))

	// Kit side is far larger than the coin side requires; the excess kit
	// must be refunded rather than deposited.
	_, coinRefund, kitRefund, next, err := pool.BuyLiquidity(tez(100), money.Mukit(10_000_000_000))
	require.NoError(t, err)
	require.True(t, kitRefund.Sign() > 0)
	require.True(t, coinRefund.IsZero())
	require.Equal(t, 0, next.Coin.Cmp(tez(1100)))
}

func TestSellLiquidityReturnsProRataShare(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))

	coinOut, kitOut, next, err := pool.SellLiquidity(pool.LiquidityTokens)
	require.NoError(t, err)
	require.Equal(t, 0, coinOut.Cmp(tez(1000)))
	require.Equal(t, 0, kitOut.Cmp(money.Mukit(1_000_000_000)))
	require.True(t, next.Coin.IsZero())
	require.True(t, next.Kit.IsZero())
}

func TestAddAccruedKitDoesNotMintLiquidityTokens(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.Mukit(1_000_000_000))
	next := pool.AddAccruedKit(money.Mukit(500))
	require.Equal(t, 0, next.LiquidityTokens.Cmp(pool.LiquidityTokens))
	require.Equal(t, 0, next.Kit.Cmp(pool.Kit.Add(money.Mukit(500))))
}

func TestKitInCoinEmptyPool(t *testing.T) {
	pool := amm.NewPool(tez(1000), money.ZeroKit())
	_, err := pool.KitInCoin()
	require.ErrorIs(t, err, amm.ErrEmptyPool)
}
