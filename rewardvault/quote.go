package reward_vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
)

// Native scales of the two pool reserves. The FORCA side is a 6 decimal
// mint, the SOL side is lamports.
const (
	forcaScaleE6 = 1_000_000
	solScaleE9   = 1_000_000_000
)

// Quote is a resolved price pair at a point in time. SolUsdE6 is the SOL/USD
// price and ForcaUsdE6 the FORCA/USD price, both 1e6 fixed point.
// ForcaPerSolE6 is the pool exchange rate, FORCA units per SOL, 1e6 scale.
type Quote struct {
	SolUsdE6      uint64
	ForcaPerSolE6 uint64
	ForcaUsdE6    uint64
	Mock          bool
	ComputedAt    time.Time
}

// QuoteConfig configures a QuoteEngine.
type QuoteConfig struct {
	Logger *slog.Logger
	Reader AccountReader
	Clock  clockwork.Clock
}

func (c *QuoteConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Reader == nil {
		return errors.New("account reader is required")
	}
	return nil
}

// QuoteEngine resolves SOL/USD and FORCA/SOL prices the same way the
// on-chain program does, so previews agree with what a transaction would see.
type QuoteEngine struct {
	log    *slog.Logger
	reader AccountReader
	clock  clockwork.Clock
}

func NewQuoteEngine(cfg QuoteConfig) (*QuoteEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quote config: %w", err)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &QuoteEngine{
		log:    cfg.Logger,
		reader: cfg.Reader,
		clock:  clock,
	}, nil
}

// Resolve produces a quote under the vault's current pricing configuration.
// Mock mode reads the two mock records verbatim. Live mode derives the
// exchange rate from the canonical pool reserves and picks the SOL/USD
// source in a fixed order: the verified oracle feed when verification is on,
// the admin-set FORCA/USD price otherwise, and the unverified feed last.
func (e *QuoteEngine) Resolve(ctx context.Context, state *VaultState) (*Quote, error) {
	if state.UseMockOracle {
		return e.resolveMock(ctx)
	}
	return e.resolveLive(ctx, state)
}

func (e *QuoteEngine) resolveMock(ctx context.Context) (*Quote, error) {
	oracleAddr, _, err := GetMockOracleSolPDA()
	if err != nil {
		return nil, fmt.Errorf("derive mock oracle: %w", err)
	}
	poolAddr, _, err := GetMockPoolForcaPDA()
	if err != nil {
		return nil, fmt.Errorf("derive mock pool: %w", err)
	}

	oracleData, err := e.reader.ReadAccount(ctx, oracleAddr)
	if err != nil {
		return nil, err
	}
	poolData, err := e.reader.ReadAccount(ctx, poolAddr)
	if err != nil {
		return nil, err
	}
	if oracleData == nil || poolData == nil {
		return nil, ErrMockAccountsUnavailable
	}

	oracle, err := ParseAccount_MockOracleSolUsd(oracleData)
	if err != nil {
		return nil, fmt.Errorf("mock oracle %s: %w", oracleAddr, err)
	}
	pool, err := ParseAccount_MockPoolForcaSol(poolData)
	if err != nil {
		return nil, fmt.Errorf("mock pool %s: %w", poolAddr, err)
	}
	if oracle.SolUsdE6 == 0 {
		return nil, fmt.Errorf("mock oracle %s: %w", oracleAddr, ErrInvalidPrice)
	}
	if pool.ForcaPerSolE6 == 0 {
		return nil, ErrZeroDerivedRate
	}

	forcaUsdE6, err := mulDiv64(oracle.SolUsdE6, forcaScaleE6, pool.ForcaPerSolE6)
	if err != nil {
		return nil, err
	}
	e.log.Debug("resolved mock quote",
		"sol_usd_e6", oracle.SolUsdE6,
		"forca_per_sol_e6", pool.ForcaPerSolE6)
	return &Quote{
		SolUsdE6:      oracle.SolUsdE6,
		ForcaPerSolE6: pool.ForcaPerSolE6,
		ForcaUsdE6:    forcaUsdE6,
		Mock:          true,
		ComputedAt:    e.clock.Now(),
	}, nil
}

func (e *QuoteEngine) resolveLive(ctx context.Context, state *VaultState) (*Quote, error) {
	rate, err := e.deriveRate(ctx, state)
	if err != nil {
		return nil, err
	}

	var solUsdE6 uint64
	switch {
	case state.VerifyPrices:
		solUsdE6, err = e.readFeedPrice(ctx, state)
	case state.ForcaUsdE6 > 0:
		// Admin-set FORCA/USD price, lifted back to SOL/USD through the rate.
		solUsdE6, err = mulDiv64(state.ForcaUsdE6, rate, forcaScaleE6)
	default:
		solUsdE6, err = e.readFeedPrice(ctx, state)
	}
	if err != nil {
		return nil, err
	}

	forcaUsdE6, err := mulDiv64(solUsdE6, forcaScaleE6, rate)
	if err != nil {
		return nil, err
	}
	e.log.Debug("resolved live quote",
		"sol_usd_e6", solUsdE6,
		"forca_per_sol_e6", rate,
		"verify_prices", state.VerifyPrices)
	return &Quote{
		SolUsdE6:      solUsdE6,
		ForcaPerSolE6: rate,
		ForcaUsdE6:    forcaUsdE6,
		ComputedAt:    e.clock.Now(),
	}, nil
}

// deriveRate computes FORCA per SOL (1e6 scale) from the canonical pool's
// reserve balances: forcaReserve * 1e9 / solReserve, both in native units.
func (e *QuoteEngine) deriveRate(ctx context.Context, state *VaultState) (uint64, error) {
	forcaReserve, err := e.readReserve(ctx, state.CanonicalPoolForcaReserve)
	if err != nil {
		return 0, err
	}
	solReserve, err := e.readReserve(ctx, state.CanonicalPoolSolReserve)
	if err != nil {
		return 0, err
	}
	if solReserve == 0 {
		return 0, ErrEmptyReserve
	}
	rate, err := mulDiv64(forcaReserve, solScaleE9, solReserve)
	if err != nil {
		return 0, err
	}
	if rate == 0 {
		return 0, ErrZeroDerivedRate
	}
	return rate, nil
}

func (e *QuoteEngine) readReserve(ctx context.Context, address solana.PublicKey) (uint64, error) {
	data, err := e.reader.ReadAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, fmt.Errorf("pool reserve account %s does not exist", address)
	}
	bal, err := ParseTokenAccountBalance(data)
	if err != nil {
		return 0, fmt.Errorf("pool reserve %s: %w", address, err)
	}
	return bal.Amount, nil
}

// readFeedPrice reads the configured SOL/USD feed and applies the staleness
// and confidence gates before scaling to 1e6.
func (e *QuoteEngine) readFeedPrice(ctx context.Context, state *VaultState) (uint64, error) {
	data, err := e.reader.ReadAccount(ctx, state.PythSolUsdPriceFeed)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, fmt.Errorf("price feed account %s does not exist", state.PythSolUsdPriceFeed)
	}
	pd, err := ParsePriceAccount(data)
	if err != nil {
		return 0, fmt.Errorf("price feed %s: %w", state.PythSolUsdPriceFeed, err)
	}

	now := e.clock.Now().Unix()
	if pd.PublishTime > now {
		return 0, fmt.Errorf("%w: publish time %d is in the future", ErrStalePrice, pd.PublishTime)
	}
	if age := uint64(now - pd.PublishTime); age > state.PythMaxStaleSecs {
		return 0, fmt.Errorf("%w: age %ds exceeds %ds", ErrStalePrice, age, state.PythMaxStaleSecs)
	}
	if state.PythMaxConfidenceBps > 0 {
		confBps, err := pd.ConfBps()
		if err != nil {
			return 0, err
		}
		if confBps > uint64(state.PythMaxConfidenceBps) {
			return 0, fmt.Errorf("%w: %d bps exceeds %d bps", ErrConfidenceTooWide, confBps, state.PythMaxConfidenceBps)
		}
	}
	return pd.PriceE6()
}
