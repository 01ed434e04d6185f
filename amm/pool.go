// Package amm implements the constant-product AMM surface that pairs tez
// with kit. It is the controller's only external collaborator
// (AddAccruedKit); the rest of the surface exists so a caller can exercise
// the pool the same way a burrow-holder would.
//
// Request/response shape follows validate, compute, mutate balances,
// return the delta or a tagged error that leaves the receiver untouched.
package amm

import (
	"errors"
	"time"

	"stablekit/numeric/fixedpoint"
	"stablekit/numeric/money"
	"stablekit/numeric/ratio"
)

// Errors returned by the AMM surface. The pool is left untouched whenever
// any of these is returned.
var (
	ErrExpired       = errors.New("amm: deadline exceeded")
	ErrTooLittleKit  = errors.New("amm: output kit below minimum")
	ErrTooLittleCoin = errors.New("amm: output coin below minimum")
	ErrEmptyPool     = errors.New("amm: pool has no liquidity")
)

// feeNumerator / feeDenominator express the AMM's 0.2% fee as a
// 998/1000 multiplier on the input side of every swap.
const (
	feeNumerator   = 998
	feeDenominator = 1000
)

// Pool is a constant-product market maker pairing Tez (coin) with Kit.
type Pool struct {
	Coin            money.Tez
	Kit             money.Kit
	LiquidityTokens fixedpoint.Value
}

// NewPool seeds a pool with an initial coin/kit balance and mints the
// genesis liquidity token supply 1:1 with the coin balance, the common AMM
// convention of treating the first deposit as the unit of account for every
// share minted afterward.
func NewPool(coin money.Tez, kit money.Kit) Pool {
	return Pool{Coin: coin, Kit: kit, LiquidityTokens: coin.Value()}
}

// KitInCoin returns the pool's kit price denominated in coin:
// coin_balance / kit_balance.
func (p Pool) KitInCoin() (ratio.Value, error) {
	if p.Kit.IsZero() {
		return ratio.Value{}, ErrEmptyPool
	}
	return ratio.FromFixedPoint(p.Coin.Value()).Quo(ratio.FromFixedPoint(p.Kit.Value())), nil
}

func expired(now, deadline time.Time) bool { return now.After(deadline) }

// BuyKit sells coinIn for kit. kit_out = floor(coin_in * kit * 998 /
// (coin * 1000 + coin_in * 998)).
func (p Pool) BuyKit(coinIn money.Tez, minKit money.Kit, now, deadline time.Time) (money.Kit, Pool, error) {
	if expired(now, deadline) {
		return money.ZeroKit(), p, ErrExpired
	}
	if p.Coin.IsZero() || p.Kit.IsZero() {
		return money.ZeroKit(), p, ErrEmptyPool
	}

	numerator := coinIn.Value().Mul(p.Kit.Value()).Mul(fixedpoint.FromInt64(feeNumerator))
	denomCoinTerm := p.Coin.Value().Mul(fixedpoint.FromInt64(feeDenominator))
	denomInTerm := coinIn.Value().Mul(fixedpoint.FromInt64(feeNumerator))
	denominator := denomCoinTerm.Add(denomInTerm)

	kitOutFixed, err := numerator.Div(denominator)
	if err != nil {
		return money.ZeroKit(), p, ErrEmptyPool
	}
	kitOut := money.KitFromFixedPoint(kitOutFixed)
	if kitOut.Cmp(minKit) < 0 {
		return money.ZeroKit(), p, ErrTooLittleKit
	}

	next := Pool{
		Coin:            p.Coin.Add(coinIn),
		Kit:             p.Kit.Sub(kitOut),
		LiquidityTokens: p.LiquidityTokens,
	}
	return kitOut, next, nil
}

// SellKit is BuyKit's mirror image: sells kitIn for coin.
func (p Pool) SellKit(kitIn money.Kit, minCoin money.Tez, now, deadline time.Time) (money.Tez, Pool, error) {
	if expired(now, deadline) {
		return money.ZeroTez(), p, ErrExpired
	}
	if p.Coin.IsZero() || p.Kit.IsZero() {
		return money.ZeroTez(), p, ErrEmptyPool
	}

	numerator := kitIn.Value().Mul(p.Coin.Value()).Mul(fixedpoint.FromInt64(feeNumerator))
	denomKitTerm := p.Kit.Value().Mul(fixedpoint.FromInt64(feeDenominator))
	denomInTerm := kitIn.Value().Mul(fixedpoint.FromInt64(feeNumerator))
	denominator := denomKitTerm.Add(denomInTerm)

	coinOutFixed, err := numerator.Div(denominator)
	if err != nil {
		return money.ZeroTez(), p, ErrEmptyPool
	}
	coinOut := money.TezFromFixedPoint(coinOutFixed)
	if coinOut.Cmp(minCoin) < 0 {
		return money.ZeroTez(), p, ErrTooLittleCoin
	}

	next := Pool{
		Coin:            p.Coin.Sub(coinOut),
		Kit:             p.Kit.Add(kitIn),
		LiquidityTokens: p.LiquidityTokens,
	}
	return coinOut, next, nil
}

// BuyLiquidity deposits coin and kit, minting floor(n * coin / coin_balance)
// liquidity tokens (n = current supply) while preserving the pool's
// coin:kit ratio. The shorter side is absorbed in full: an unbalanced
// deposit mints shares proportional to whichever side is the binding
// constraint, and refunds the excess of the other side to the caller.
func (p Pool) BuyLiquidity(coin money.Tez, kit money.Kit) (fixedpoint.Value, money.Tez, money.Kit, Pool, error) {
	if p.Coin.IsZero() || p.Kit.IsZero() {
		return fixedpoint.Zero(), money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}

	mintedFromCoin := p.LiquidityTokens.Mul(coin.Value())
	mintedFromCoin, err := mintedFromCoin.Div(p.Coin.Value())
	if err != nil {
		return fixedpoint.Zero(), money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}

	// kit required to keep the ratio, for the coin side actually deposited.
	kitRequiredFixed := p.Kit.Value().Mul(coin.Value())
	kitRequiredFixed, err = kitRequiredFixed.Div(p.Coin.Value())
	if err != nil {
		return fixedpoint.Zero(), money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}
	kitRequired := money.KitFromFixedPoint(kitRequiredFixed)

	if kitRequired.Cmp(kit) <= 0 {
		// kit side is the longer one; refund the excess kit.
		kitRefund := kit.Sub(kitRequired)
		next := Pool{
			Coin:            p.Coin.Add(coin),
			Kit:             p.Kit.Add(kitRequired),
			LiquidityTokens: p.LiquidityTokens.Add(mintedFromCoin),
		}
		return mintedFromCoin, money.ZeroTez(), kitRefund, next, nil
	}

	// kit side is the shorter one; recompute minted tokens and coin usage
	// from the kit side instead, refunding the excess coin.
	mintedFromKit := p.LiquidityTokens.Mul(kit.Value())
	mintedFromKit, err = mintedFromKit.Div(p.Kit.Value())
	if err != nil {
		return fixedpoint.Zero(), money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}
	coinRequiredFixed := p.Coin.Value().Mul(kit.Value())
	coinRequiredFixed, err = coinRequiredFixed.Div(p.Kit.Value())
	if err != nil {
		return fixedpoint.Zero(), money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}
	coinRequired := money.TezFromFixedPoint(coinRequiredFixed)
	coinRefund := coin.Sub(coinRequired)

	next := Pool{
		Coin:            p.Coin.Add(coinRequired),
		Kit:             p.Kit.Add(kit),
		LiquidityTokens: p.LiquidityTokens.Add(mintedFromKit),
	}
	return mintedFromKit, coinRefund, money.ZeroKit(), next, nil
}

// SellLiquidity redeems tokens for a pro-rata share of the pool's coin and
// kit balances.
func (p Pool) SellLiquidity(tokens fixedpoint.Value) (money.Tez, money.Kit, Pool, error) {
	if p.LiquidityTokens.IsZero() {
		return money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}

	coinOutFixed := p.Coin.Value().Mul(tokens)
	coinOutFixed, err := coinOutFixed.Div(p.LiquidityTokens)
	if err != nil {
		return money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}
	kitOutFixed := p.Kit.Value().Mul(tokens)
	kitOutFixed, err = kitOutFixed.Div(p.LiquidityTokens)
	if err != nil {
		return money.ZeroTez(), money.ZeroKit(), p, ErrEmptyPool
	}

	coinOut := money.TezFromFixedPoint(coinOutFixed)
	kitOut := money.KitFromFixedPoint(kitOutFixed)

	next := Pool{
		Coin:            p.Coin.Sub(coinOut),
		Kit:             p.Kit.Sub(kitOut),
		LiquidityTokens: p.LiquidityTokens.Sub(tokens),
	}
	return coinOut, kitOut, next, nil
}

// AddAccruedKit increases the kit side of the pool without minting
// liquidity tokens. This is the controller's only call into the AMM
// surface, invoked once per Touch with the tick's kit accrual.
func (p Pool) AddAccruedKit(kit money.Kit) Pool {
	return Pool{
		Coin:            p.Coin,
		Kit:             p.Kit.Add(kit),
		LiquidityTokens: p.LiquidityTokens,
	}
}
