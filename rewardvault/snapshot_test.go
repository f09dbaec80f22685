package reward_vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(t *testing.T, reader AccountReader) *Assembler {
	t.Helper()
	asm, err := NewAssembler(SnapshotConfig{
		Logger: testLogger(),
		Reader: reader,
		Clock:  clockwork.NewFakeClockAt(time.Unix(quoteTestNow, 0)),
	})
	require.NoError(t, err)
	return asm
}

func TestAssembleEmptyChainYieldsAddressedEmptySlots(t *testing.T) {
	user := testKey(0x01)
	mint := testKey(0x02)
	asm := newTestAssembler(t, &fakeReader{})

	snap, err := asm.Assemble(context.Background(), user, []solana.PublicKey{mint})
	require.NoError(t, err)
	require.Equal(t, user, snap.User)
	require.Equal(t, quoteTestNow, snap.TakenAt.Unix())

	vaultState, _, err := GetVaultStatePDA()
	require.NoError(t, err)
	require.Equal(t, vaultState, snap.Vault.Address)
	require.False(t, snap.Vault.Exists)
	require.NoError(t, snap.Vault.Err)
	require.Nil(t, snap.Vault.State)

	profile, _, err := GetPopProfilePDA(user)
	require.NoError(t, err)
	require.Equal(t, profile, snap.Profile.Address)
	require.False(t, snap.Profile.Exists)

	require.Len(t, snap.Allies, 1)
	as := snap.Allies[0]
	require.Equal(t, mint, as.NftMint)

	allyAddr, _, err := GetAllyPDA(mint)
	require.NoError(t, err)
	ledgerAddr, _, err := GetUserLedgerPDA(user, mint)
	require.NoError(t, err)
	guardAddr, _, err := GetClaimGuardPDA(user, mint)
	require.NoError(t, err)
	require.Equal(t, allyAddr, as.Ally.Address)
	require.Equal(t, ledgerAddr, as.Ledger.Address)
	require.Equal(t, guardAddr, as.Guard.Address)
	require.False(t, as.Ally.Exists)
	require.False(t, as.Ledger.Exists)
	require.False(t, as.Guard.Exists)

	// No ally record means no derived guard view.
	require.Nil(t, as.Status)
	require.Zero(t, as.EffectiveClaimable)
}

func TestAssembleDecodesRecordsAndDerivesClaimable(t *testing.T) {
	user := testKey(0x01)
	mint := testKey(0x02)

	vaultState, _, err := GetVaultStatePDA()
	require.NoError(t, err)
	profileAddr, _, err := GetPopProfilePDA(user)
	require.NoError(t, err)
	allyAddr, _, err := GetAllyPDA(mint)
	require.NoError(t, err)
	ledgerAddr, _, err := GetUserLedgerPDA(user, mint)
	require.NoError(t, err)
	guardAddr, _, err := GetClaimGuardPDA(user, mint)
	require.NoError(t, err)

	reader := &fakeReader{accounts: map[solana.PublicKey][]byte{
		vaultState: encodeAccount(t, &VaultState{ForcaUsdE6: 75_000}),
		profileAddr: encodeAccount(t, &PopProfile{
			User:  user,
			Level: PopLevel_Soft,
		}),
		allyAddr: encodeAccount(t, &AllyAccount{
			NftMint:           mint,
			PopEnforced:       true,
			SoftDailyCapUsdE6: 100_000_000,
		}),
		ledgerAddr: encodeAccount(t, &UserLedger{
			User:             user,
			AllyNftMint:      mint,
			RpClaimableForca: 5_000_000_000,
		}),
		guardAddr: encodeAccount(t, &ClaimGuard{
			Day:       DayIndex(quoteTestNow),
			UsedUsdE6: 40_000_000,
		}),
	}}
	asm := newTestAssembler(t, reader)

	snap, err := asm.Assemble(context.Background(), user, []solana.PublicKey{mint})
	require.NoError(t, err)

	require.True(t, snap.Vault.Exists)
	require.NotNil(t, snap.Vault.State)
	require.True(t, snap.Profile.Exists)
	require.Equal(t, PopLevel_Soft, snap.Profile.Profile.Level)

	as := snap.Allies[0]
	require.True(t, as.Ally.Exists)
	require.True(t, as.Ledger.Exists)
	require.True(t, as.Guard.Exists)
	require.NotNil(t, as.Status)
	require.Equal(t, uint64(40_000_000), as.Status.UsedUsdE6Today)
	require.Equal(t, uint64(60_000_000), as.Status.RemainingUsdE6)
	// $60 remaining at 0.075 USD/FORCA caps below the 5_000 FORCA ledger.
	require.Equal(t, uint64(800_000_000), as.Status.RemainingForca)
	require.Equal(t, uint64(800_000_000), as.EffectiveClaimable)
}

func TestAssembleIsolatesSlotFailures(t *testing.T) {
	user := testKey(0x01)
	mint := testKey(0x02)

	vaultState, _, err := GetVaultStatePDA()
	require.NoError(t, err)
	allyAddr, _, err := GetAllyPDA(mint)
	require.NoError(t, err)

	readErr := errors.New("rpc timeout")
	reader := &fakeReader{
		accounts: map[solana.PublicKey][]byte{
			allyAddr: encodeAccount(t, &AllyAccount{NftMint: mint}),
		},
		errs: map[solana.PublicKey]error{vaultState: readErr},
	}
	asm := newTestAssembler(t, reader)

	snap, err := asm.Assemble(context.Background(), user, []solana.PublicKey{mint})
	require.NoError(t, err)
	require.ErrorIs(t, snap.Vault.Err, readErr)
	require.False(t, snap.Vault.Exists)
	// The failing vault read does not poison the ally slot.
	require.True(t, snap.Allies[0].Ally.Exists)
	require.NoError(t, snap.Allies[0].Ally.Err)
}

func TestAssembleFlagsCorruptAccountData(t *testing.T) {
	user := testKey(0x01)
	mint := testKey(0x02)

	ledgerAddr, _, err := GetUserLedgerPDA(user, mint)
	require.NoError(t, err)
	allyAddr, _, err := GetAllyPDA(mint)
	require.NoError(t, err)

	reader := &fakeReader{accounts: map[solana.PublicKey][]byte{
		ledgerAddr: {1, 2, 3},
		allyAddr:   encodeAccount(t, &AllyAccount{NftMint: mint}),
	}}
	asm := newTestAssembler(t, reader)

	snap, err := asm.Assemble(context.Background(), user, []solana.PublicKey{mint})
	require.NoError(t, err)
	as := snap.Allies[0]
	require.True(t, as.Ledger.Exists)
	require.ErrorIs(t, as.Ledger.Err, ErrTooShort)
	require.Nil(t, as.Ledger.Ledger)
	// A corrupt ledger reads as nothing claimable.
	require.Zero(t, as.EffectiveClaimable)
}
