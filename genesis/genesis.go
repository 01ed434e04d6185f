// Package genesis loads the protocol's day-zero configuration: the fixed
// constants of controller.Constants and the initial controller.Parameters.
// A TOML file is decoded, a documented default is written when absent,
// and the result is validated after decode.
package genesis

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"stablekit/controller"
	"stablekit/numeric/fixedpoint"
	"stablekit/numeric/money"
	"stablekit/numeric/ratio"
)

// parseFixed decodes a genesis document's initial-state field, written in
// the hex layout fixedpoint.HexString produces; an all-decimal-digit
// string like "1.0000000000000000" is valid hex too, since 0-9 are hex
// digits.
func parseFixed(s string) (fixedpoint.Value, error) {
	return fixedpoint.ParseHex(s)
}

// Genesis is the day-zero document: the protocol's fixed constants plus
// the initial Parameters snapshot. Ratio-valued fields are decoded from
// numerator/denominator pairs rather than floats, since the controller's
// constants must be exact.
type Genesis struct {
	SecondsInADay  int64 `toml:"seconds_in_a_day"`
	SecondsInAYear int64 `toml:"seconds_in_a_year"`

	ProtectedIndexEpsilon Fraction `toml:"protected_index_epsilon"`
	TargetLowBracket      Fraction `toml:"target_low_bracket"`
	TargetHighBracket     Fraction `toml:"target_high_bracket"`
	BurrowFeePercentage   Fraction `toml:"burrow_fee_percentage"`
	ImbalanceSensitivity  Fraction `toml:"imbalance_sensitivity"`
	ImbalanceClampFactor  int64    `toml:"imbalance_clamp_factor"`

	AMMFeeNumerator   int64 `toml:"amm_fee_numerator"`
	AMMFeeDenominator int64 `toml:"amm_fee_denominator"`

	InitialQ              string `toml:"initial_q"`
	InitialIndex          string `toml:"initial_index"`
	InitialProtectedIndex string `toml:"initial_protected_index"`
	InitialTarget         string `toml:"initial_target"`
}

// Fraction is a TOML-friendly exact numerator/denominator pair.
type Fraction struct {
	Num int64 `toml:"num"`
	Den int64 `toml:"den"`
}

func (f Fraction) ratio() ratio.Value {
	return ratio.FromFrac(big.NewInt(f.Num), big.NewInt(f.Den))
}

// ErrInvalidConstant is returned by Validate, wrapped with the offending
// field, whenever a genesis document carries a non-positive time
// denominator, a zero fraction denominator, or a non-positive AMM fee
// term.
var ErrInvalidConstant = fmt.Errorf("genesis: invalid constant")

// Load reads path as a TOML-encoded Genesis document. If path does not
// exist, a default document matching controller.DefaultConstants is
// written there and returned, bootstrapping a fresh config on first run.
func Load(path string) (*Genesis, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	} else if err != nil {
		return nil, err
	}

	g := &Genesis{}
	if _, err := toml.DecodeFile(path, g); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func createDefault(path string) (*Genesis, error) {
	c := controller.DefaultConstants()
	g := &Genesis{
		SecondsInADay:         c.SecondsInADay,
		SecondsInAYear:        c.SecondsInAYear,
		ProtectedIndexEpsilon: Fraction{Num: 5, Den: 10000},
		TargetLowBracket:      Fraction{Num: 5, Den: 1000},
		TargetHighBracket:     Fraction{Num: 5, Den: 100},
		BurrowFeePercentage:   Fraction{Num: 5, Den: 1000},
		ImbalanceSensitivity:  Fraction{Num: 1, Den: 100},
		ImbalanceClampFactor:  5,
		AMMFeeNumerator:       c.AMMFeeNumerator,
		AMMFeeDenominator:     c.AMMFeeDenominator,
		InitialQ:              "1.0000000000000000",
		InitialIndex:          "1.0000000000000000",
		InitialProtectedIndex: "1.0000000000000000",
		InitialTarget:         "1.0000000000000000",
	}
	if err := persist(path, g); err != nil {
		return nil, err
	}
	return g, nil
}

func persist(path string, g *Genesis) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(g)
}

// Validate runs every field check in one method, mirroring
// config.validate.go's one-Validate-method pattern, and returns the first
// failure found, wrapped around ErrInvalidConstant.
func (g *Genesis) Validate() error {
	if g.SecondsInADay <= 0 {
		return fmt.Errorf("%w: seconds_in_a_day must be positive", ErrInvalidConstant)
	}
	if g.SecondsInAYear <= 0 {
		return fmt.Errorf("%w: seconds_in_a_year must be positive", ErrInvalidConstant)
	}
	for name, f := range map[string]Fraction{
		"protected_index_epsilon": g.ProtectedIndexEpsilon,
		"target_low_bracket":      g.TargetLowBracket,
		"target_high_bracket":     g.TargetHighBracket,
		"burrow_fee_percentage":   g.BurrowFeePercentage,
		"imbalance_sensitivity":   g.ImbalanceSensitivity,
	} {
		if f.Den == 0 {
			return fmt.Errorf("%w: %s has a zero denominator", ErrInvalidConstant, name)
		}
	}
	if g.ImbalanceClampFactor <= 0 {
		return fmt.Errorf("%w: imbalance_clamp_factor must be positive", ErrInvalidConstant)
	}
	if g.AMMFeeNumerator <= 0 || g.AMMFeeDenominator <= 0 || g.AMMFeeNumerator > g.AMMFeeDenominator {
		return fmt.Errorf("%w: amm fee numerator/denominator must be positive with numerator <= denominator", ErrInvalidConstant)
	}
	return nil
}

// Constants converts the decoded document into controller.Constants.
func (g *Genesis) Constants() controller.Constants {
	return controller.Constants{
		SecondsInADay:         g.SecondsInADay,
		SecondsInAYear:        g.SecondsInAYear,
		ProtectedIndexEpsilon: g.ProtectedIndexEpsilon.ratio(),
		TargetLowBracket:      g.TargetLowBracket.ratio(),
		TargetHighBracket:     g.TargetHighBracket.ratio(),
		BurrowFeePercentage:   g.BurrowFeePercentage.ratio(),
		ImbalanceSensitivity:  g.ImbalanceSensitivity.ratio(),
		ImbalanceClampFactor:  ratio.FromInt64(g.ImbalanceClampFactor),
		AMMFeeNumerator:       g.AMMFeeNumerator,
		AMMFeeDenominator:     g.AMMFeeDenominator,
	}
}

// Parameters converts the decoded document's initial-state fields into a
// controller.Parameters snapshot timestamped at ts.
func (g *Genesis) Parameters(ts time.Time) (controller.Parameters, error) {
	q, err := parseFixed(g.InitialQ)
	if err != nil {
		return controller.Parameters{}, fmt.Errorf("genesis: initial_q: %w", err)
	}
	index, err := parseFixed(g.InitialIndex)
	if err != nil {
		return controller.Parameters{}, fmt.Errorf("genesis: initial_index: %w", err)
	}
	protectedIndex, err := parseFixed(g.InitialProtectedIndex)
	if err != nil {
		return controller.Parameters{}, fmt.Errorf("genesis: initial_protected_index: %w", err)
	}
	target, err := parseFixed(g.InitialTarget)
	if err != nil {
		return controller.Parameters{}, fmt.Errorf("genesis: initial_target: %w", err)
	}

	p := controller.MakeInitial(ts)
	p.Q = q
	p.Index = money.TezFromFixedPoint(index)
	p.ProtectedIndex = money.TezFromFixedPoint(protectedIndex)
	p.Target = target
	return p, nil
}
