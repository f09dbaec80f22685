package reward_vault

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	accounts map[solana.PublicKey][]byte
	errs     map[solana.PublicKey]error
}

func (f *fakeReader) ReadAccount(_ context.Context, address solana.PublicKey) ([]byte, error) {
	if err, ok := f.errs[address]; ok {
		return nil, err
	}
	return f.accounts[address], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeTokenAccount(t *testing.T, amount uint64) []byte {
	t.Helper()
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[64:], amount)
	return data
}

const quoteTestNow = int64(1_730_000_000)

func newTestQuoteEngine(t *testing.T, reader AccountReader) *QuoteEngine {
	t.Helper()
	engine, err := NewQuoteEngine(QuoteConfig{
		Logger: testLogger(),
		Reader: reader,
		Clock:  clockwork.NewFakeClockAt(time.Unix(quoteTestNow, 0)),
	})
	require.NoError(t, err)
	return engine
}

func mockModeState() *VaultState {
	return &VaultState{UseMockOracle: true}
}

func liveState(t *testing.T) (*VaultState, *fakeReader) {
	t.Helper()
	state := &VaultState{
		PythSolUsdPriceFeed:       testKey(100),
		CanonicalPoolForcaSol:     testKey(101),
		CanonicalPoolForcaReserve: testKey(102),
		CanonicalPoolSolReserve:   testKey(103),
		PythMaxStaleSecs:          60,
		PythMaxConfidenceBps:      200,
	}
	reader := &fakeReader{accounts: map[solana.PublicKey][]byte{
		// 10_000 FORCA (1e6) against 5 SOL (1e9): 2_000 FORCA per SOL.
		state.CanonicalPoolForcaReserve: makeTokenAccount(t, 10_000_000_000),
		state.CanonicalPoolSolReserve:   makeTokenAccount(t, 5_000_000_000),
	}}
	return state, reader
}

func TestQuoteMockModePassesRawValuesThrough(t *testing.T) {
	oracleAddr, _, err := GetMockOracleSolPDA()
	require.NoError(t, err)
	poolAddr, _, err := GetMockPoolForcaPDA()
	require.NoError(t, err)

	reader := &fakeReader{accounts: map[solana.PublicKey][]byte{
		oracleAddr: encodeAccount(t, &MockOracleSolUsd{SolUsdE6: 150_000_000, ExpoI32: -6, PublishTs: quoteTestNow}),
		poolAddr:   encodeAccount(t, &MockPoolForcaSol{ForcaPerSolE6: 2_000_000_000}),
	}}
	engine := newTestQuoteEngine(t, reader)

	quote, err := engine.Resolve(context.Background(), mockModeState())
	require.NoError(t, err)
	require.True(t, quote.Mock)
	require.Equal(t, uint64(150_000_000), quote.SolUsdE6)
	require.Equal(t, uint64(2_000_000_000), quote.ForcaPerSolE6)
	// 150 USD/SOL at 2000 FORCA/SOL = 0.075 USD per FORCA.
	require.Equal(t, uint64(75_000), quote.ForcaUsdE6)
}

func TestQuoteMockModeMissingAccounts(t *testing.T) {
	engine := newTestQuoteEngine(t, &fakeReader{})
	_, err := engine.Resolve(context.Background(), mockModeState())
	require.ErrorIs(t, err, ErrMockAccountsUnavailable)
}

func TestQuoteLiveVerified(t *testing.T) {
	state, reader := liveState(t)
	state.VerifyPrices = true
	reader.accounts[state.PythSolUsdPriceFeed] =
		buildPriceUpdateV2(t, 1, 15_000_000_000, 1_000_000, -8, quoteTestNow-10)
	engine := newTestQuoteEngine(t, reader)

	quote, err := engine.Resolve(context.Background(), state)
	require.NoError(t, err)
	require.False(t, quote.Mock)
	require.Equal(t, uint64(150_000_000), quote.SolUsdE6)
	require.Equal(t, uint64(2_000_000_000), quote.ForcaPerSolE6)
	require.Equal(t, uint64(75_000), quote.ForcaUsdE6)
}

func TestQuoteLiveStaleFeed(t *testing.T) {
	state, reader := liveState(t)
	state.VerifyPrices = true
	reader.accounts[state.PythSolUsdPriceFeed] =
		buildPriceUpdateV2(t, 1, 15_000_000_000, 1_000_000, -8, quoteTestNow-61)
	engine := newTestQuoteEngine(t, reader)

	_, err := engine.Resolve(context.Background(), state)
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestQuoteLiveFuturePublishTime(t *testing.T) {
	state, reader := liveState(t)
	state.VerifyPrices = true
	reader.accounts[state.PythSolUsdPriceFeed] =
		buildPriceUpdateV2(t, 1, 15_000_000_000, 1_000_000, -8, quoteTestNow+30)
	engine := newTestQuoteEngine(t, reader)

	_, err := engine.Resolve(context.Background(), state)
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestQuoteLiveConfidenceTooWide(t *testing.T) {
	state, reader := liveState(t)
	state.VerifyPrices = true
	// conf/price = 3%, above the 200 bps ceiling.
	reader.accounts[state.PythSolUsdPriceFeed] =
		buildPriceUpdateV2(t, 1, 15_000_000_000, 450_000_000, -8, quoteTestNow-1)
	engine := newTestQuoteEngine(t, reader)

	_, err := engine.Resolve(context.Background(), state)
	require.ErrorIs(t, err, ErrConfidenceTooWide)
}

func TestQuoteLiveEmptySolReserve(t *testing.T) {
	state, reader := liveState(t)
	reader.accounts[state.CanonicalPoolSolReserve] = makeTokenAccount(t, 0)
	engine := newTestQuoteEngine(t, reader)

	_, err := engine.Resolve(context.Background(), state)
	require.ErrorIs(t, err, ErrEmptyReserve)
}

func TestQuoteLiveAdminPriceFallback(t *testing.T) {
	state, reader := liveState(t)
	state.VerifyPrices = false
	state.ForcaUsdE6 = 75_000 // admin-set FORCA/USD, no feed account needed
	engine := newTestQuoteEngine(t, reader)

	quote, err := engine.Resolve(context.Background(), state)
	require.NoError(t, err)
	// 0.075 USD/FORCA at 2000 FORCA/SOL lifts back to 150 USD/SOL.
	require.Equal(t, uint64(150_000_000), quote.SolUsdE6)
	require.Equal(t, uint64(75_000), quote.ForcaUsdE6)
}

func TestQuoteLiveUnverifiedFeedFallback(t *testing.T) {
	state, reader := liveState(t)
	state.VerifyPrices = false
	state.ForcaUsdE6 = 0
	reader.accounts[state.PythSolUsdPriceFeed] =
		buildPriceUpdateV2(t, 1, 15_000_000_000, 1_000_000, -8, quoteTestNow-5)
	engine := newTestQuoteEngine(t, reader)

	quote, err := engine.Resolve(context.Background(), state)
	require.NoError(t, err)
	require.Equal(t, uint64(150_000_000), quote.SolUsdE6)
}
