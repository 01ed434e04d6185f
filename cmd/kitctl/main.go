// Command kitctl loads a genesis document, runs one or more controller
// ticks against a supplied oracle/kit-price sequence, and logs the
// resulting parameters and AMM pool state per tick. It exercises the
// library end to end without opening a socket or touching disk beyond its
// own input file, the shape of cmd/swap-audit's "load config, run the
// domain logic, print the result" pattern minus anything networked.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"stablekit/amm"
	"stablekit/controller"
	"stablekit/genesis"
	"stablekit/numeric/fixedpoint"
	"stablekit/numeric/money"
	"stablekit/numeric/ratio"
	"stablekit/observability/logging"
)

// tick is one line of the --ticks file: "oracle_index kit_price_in_coin",
// the oracle index in the hex layout fixedpoint.HexString produces and the
// kit price as a plain decimal literal, applied at intervals of --interval
// seconds starting from genesis.
type tick struct {
	oracleIndex    money.Tez
	kitPriceInCoin ratio.Value
}

func main() {
	genesisPath := flag.String("genesis", "./genesis.toml", "path to the genesis TOML document")
	ticksPath := flag.String("ticks", "", "path to a file of \"oracle_index kit_price_in_coin\" lines, one per tick")
	intervalSeconds := flag.Int64("interval", 3600, "seconds between ticks")
	env := flag.String("env", "local", "deployment environment label for logging")
	flag.Parse()

	logger := logging.Setup("kitctl", *env, slog.String("genesis_path", *genesisPath))

	g, err := genesis.Load(*genesisPath)
	if err != nil {
		logger.Error("failed to load genesis", "error", err)
		os.Exit(1)
	}

	now := time.Unix(0, 0).UTC()
	params, err := g.Parameters(now)
	if err != nil {
		logger.Error("failed to derive initial parameters", "error", err)
		os.Exit(1)
	}
	consts := g.Constants()

	ticks, err := loadTicks(*ticksPath)
	if err != nil {
		logger.Error("failed to load ticks", "error", err)
		os.Exit(1)
	}

	pool := amm.NewPool(money.TezFromFixedPoint(fixedpoint.FromInt64(1)), money.Mukit(1_000_000))

	interval := time.Duration(*intervalSeconds) * time.Second
	for i, t := range ticks {
		now = now.Add(interval)
		accrual, next := controller.Touch(now, t.oracleIndex, t.kitPriceInCoin, params, consts)
		pool = pool.AddAccruedKit(accrual)
		params = next

		logger.Info("tick",
			"index", i,
			"target", params.Target.HexString(),
			"q", params.Q.HexString(),
			"drift", params.Drift.HexString(),
			"accrual_kit", accrual.Value().HexString(),
			"pool_coin", pool.Coin.Value().HexString(),
			"pool_kit", pool.Kit.Value().HexString(),
		)
	}
}

func loadTicks(path string) ([]tick, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ticks []tick
	for lineNum, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("ticks file line %d: expected 2 fields, got %d", lineNum+1, len(fields))
		}
		oracleIndex, err := fixedpoint.ParseHex(fields[0])
		if err != nil {
			return nil, fmt.Errorf("ticks file line %d: oracle_index: %w", lineNum+1, err)
		}
		kitPrice, err := parseDecimalRatio(fields[1])
		if err != nil {
			return nil, fmt.Errorf("ticks file line %d: kit_price_in_coin: %w", lineNum+1, err)
		}
		ticks = append(ticks, tick{
			oracleIndex:    money.TezFromFixedPoint(oracleIndex),
			kitPriceInCoin: kitPrice,
		})
	}
	return ticks, nil
}

// parseDecimalRatio parses a plain decimal literal (e.g. "0.305") into an
// exact ratio.Value, for the ticks file's kit-price column.
func parseDecimalRatio(s string) (ratio.Value, error) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return ratio.Value{}, err
	}
	if !hasFrac || fracPart == "" {
		return ratio.FromInt64(whole), nil
	}
	fracNum, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return ratio.Value{}, err
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(fracPart))), nil)
	num := new(big.Int).Add(new(big.Int).Mul(big.NewInt(whole), den), big.NewInt(fracNum))
	return ratio.FromFrac(num, den), nil
}
