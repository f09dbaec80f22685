package reward_vault

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction discriminators, sha256("global:<snake_case_name>")[..8]. These
// are part of the wire contract with the on-chain program.
var (
	Instruction_ConvertToScopedPP = [8]byte{112, 238, 195, 2, 143, 214, 143, 89}
	Instruction_ClaimRP           = [8]byte{89, 196, 234, 5, 100, 197, 24, 219}
)

// ErrZeroAmount rejects instruction payloads for a zero or negative token
// amount; the program rejects those too, so there is no point encoding them.
var ErrZeroAmount = errors.New("amount must be positive")

func encodeInstructionData(disc [8]byte, args ...uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(disc[:], false); err != nil {
		return nil, err
	}
	for _, a := range args {
		if err := enc.WriteUint64(a, bin.LE); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// NewConvertToScopedPPInstruction builds the convert_to_scoped_pp instruction
// that swaps claimable FORCA for ally scoped purchase points. The price
// arguments are the client-observed quote the program verifies against its
// own oracle read.
func NewConvertToScopedPPInstruction(
	user solana.PublicKey,
	allyNftMint solana.PublicKey,
	userForcaAta solana.PublicKey,
	allyVaultAta solana.PublicKey,
	state *VaultState,
	amountForca int64,
	solPriceUsdE6 uint64,
	forcaPerSolE6 uint64,
) (solana.Instruction, error) {
	if amountForca <= 0 {
		return nil, ErrZeroAmount
	}
	vaultState, _, err := GetVaultStatePDA()
	if err != nil {
		return nil, fmt.Errorf("derive vault state: %w", err)
	}
	ally, _, err := GetAllyPDA(allyNftMint)
	if err != nil {
		return nil, fmt.Errorf("derive ally: %w", err)
	}
	ledger, _, err := GetUserLedgerPDA(user, allyNftMint)
	if err != nil {
		return nil, fmt.Errorf("derive user ledger: %w", err)
	}
	mockOracle, _, err := GetMockOracleSolPDA()
	if err != nil {
		return nil, fmt.Errorf("derive mock oracle: %w", err)
	}
	mockPool, _, err := GetMockPoolForcaPDA()
	if err != nil {
		return nil, fmt.Errorf("derive mock pool: %w", err)
	}

	data, err := encodeInstructionData(Instruction_ConvertToScopedPP, uint64(amountForca), solPriceUsdE6, forcaPerSolE6)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(userForcaAta, true, false),
		solana.NewAccountMeta(vaultState, false, false),
		solana.NewAccountMeta(ally, true, false),
		solana.NewAccountMeta(allyNftMint, false, false),
		solana.NewAccountMeta(allyVaultAta, true, false),
		solana.NewAccountMeta(ledger, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(state.PythSolUsdPriceFeed, false, false),
		solana.NewAccountMeta(state.CanonicalPoolForcaSol, false, false),
		solana.NewAccountMeta(mockOracle, false, false),
		solana.NewAccountMeta(mockPool, false, false),
		solana.NewAccountMeta(state.CanonicalPoolForcaReserve, false, false),
		solana.NewAccountMeta(state.CanonicalPoolSolReserve, false, false),
	}
	return solana.NewInstruction(ProgramID, accounts, data), nil
}

// NewClaimRPInstruction builds the claim_rp instruction that pays out
// claimable FORCA through the vault signer, subject to the on-chain guards.
func NewClaimRPInstruction(
	user solana.PublicKey,
	allyNftMint solana.PublicKey,
	userForcaAta solana.PublicKey,
	allyVaultAta solana.PublicKey,
	state *VaultState,
	amountForca int64,
) (solana.Instruction, error) {
	if amountForca <= 0 {
		return nil, ErrZeroAmount
	}
	vaultState, _, err := GetVaultStatePDA()
	if err != nil {
		return nil, fmt.Errorf("derive vault state: %w", err)
	}
	vaultSigner, _, err := GetVaultSignerPDA()
	if err != nil {
		return nil, fmt.Errorf("derive vault signer: %w", err)
	}
	ally, _, err := GetAllyPDA(allyNftMint)
	if err != nil {
		return nil, fmt.Errorf("derive ally: %w", err)
	}
	ledger, _, err := GetUserLedgerPDA(user, allyNftMint)
	if err != nil {
		return nil, fmt.Errorf("derive user ledger: %w", err)
	}
	popProfile, _, err := GetPopProfilePDA(user)
	if err != nil {
		return nil, fmt.Errorf("derive pop profile: %w", err)
	}
	claimGuard, _, err := GetClaimGuardPDA(user, allyNftMint)
	if err != nil {
		return nil, fmt.Errorf("derive claim guard: %w", err)
	}
	mockOracle, _, err := GetMockOracleSolPDA()
	if err != nil {
		return nil, fmt.Errorf("derive mock oracle: %w", err)
	}
	mockPool, _, err := GetMockPoolForcaPDA()
	if err != nil {
		return nil, fmt.Errorf("derive mock pool: %w", err)
	}

	data, err := encodeInstructionData(Instruction_ClaimRP, uint64(amountForca))
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(userForcaAta, true, false),
		solana.NewAccountMeta(ally, true, false),
		solana.NewAccountMeta(vaultState, false, false),
		solana.NewAccountMeta(vaultSigner, false, false),
		solana.NewAccountMeta(allyVaultAta, true, false),
		solana.NewAccountMeta(ledger, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(popProfile, true, false),
		solana.NewAccountMeta(claimGuard, true, false),
		solana.NewAccountMeta(state.PythSolUsdPriceFeed, false, false),
		solana.NewAccountMeta(state.CanonicalPoolForcaSol, false, false),
		solana.NewAccountMeta(mockOracle, false, false),
		solana.NewAccountMeta(mockPool, false, false),
		solana.NewAccountMeta(state.CanonicalPoolForcaReserve, false, false),
		solana.NewAccountMeta(state.CanonicalPoolSolReserve, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(ProgramID, accounts, data), nil
}
