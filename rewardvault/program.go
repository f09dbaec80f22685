package reward_vault

import (
	"crypto/sha256"
	"os"

	"github.com/gagliardetto/solana-go"
)

// ProgramID is the reward vault program id. The devnet deployment is the
// default; set REWARD_VAULT_PROGRAM_ID to target another deployment.
var ProgramID = func() solana.PublicKey {
	if v := os.Getenv("REWARD_VAULT_PROGRAM_ID"); v != "" {
		return solana.MustPublicKeyFromBase58(v)
	}
	return solana.MustPublicKeyFromBase58("eD97PpKEcqEWZtZJKttwc6RfDkowcybP4mJskPn1uqf")
}()

var (
	// WSolMint is the wrapped SOL mint, the quote side of the canonical pool.
	WSolMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	// PythPushOracleProgramID owns push-oracle style SOL/USD feed accounts.
	PythPushOracleProgramID = solana.MustPublicKeyFromBase58("pythWSnswVUd12oZpeFP8e9CVaEqJg25g1Vtc2biRsT")

	// PythReceiverProgramID owns PriceUpdateV2 accounts written by the Pyth receiver.
	PythReceiverProgramID = solana.MustPublicKeyFromBase58("rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ")
)

// PDA seed tags. These must match the on-chain program byte for byte.
const (
	SeedVaultState    = "vault_state"
	SeedVaultSigner   = "vault_signer"
	SeedAlly          = "ally"
	SeedAllyVault     = "ally_vault"
	SeedPopProfile    = "pop"
	SeedUserLedger    = "user_ledger"
	SeedClaimGuard    = "claim_guard"
	SeedMockOracleSol = "mock_oracle_sol"
	SeedMockPoolForca = "mock_pool_forca"
)

// GetVaultStatePDA derives the singleton vault configuration account.
func GetVaultStatePDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedVaultState)}, ProgramID)
}

// GetVaultSignerPDA derives the program signer that owns the vault token accounts.
func GetVaultSignerPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedVaultSigner)}, ProgramID)
}

// GetAllyPDA derives the ally account for an ally NFT mint.
func GetAllyPDA(nftMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedAlly), nftMint.Bytes()}, ProgramID)
}

// GetAllyVaultPDA derives the ally vault token account authority seed.
func GetAllyVaultPDA(nftMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedAllyVault), nftMint.Bytes()}, ProgramID)
}

// GetPopProfilePDA derives the proof-of-personhood profile for a user.
func GetPopProfilePDA(user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedPopProfile), user.Bytes()}, ProgramID)
}

// GetUserLedgerPDA derives the per-user, per-ally reward ledger.
func GetUserLedgerPDA(user, nftMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedUserLedger), user.Bytes(), nftMint.Bytes()}, ProgramID)
}

// GetClaimGuardPDA derives the rolling claim quota account for a user under an ally.
func GetClaimGuardPDA(user, nftMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedClaimGuard), user.Bytes(), nftMint.Bytes()}, ProgramID)
}

// GetMockOracleSolPDA derives the mock SOL/USD oracle account.
func GetMockOracleSolPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedMockOracleSol)}, ProgramID)
}

// GetMockPoolForcaPDA derives the mock FORCA/SOL pool account.
func GetMockPoolForcaPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedMockPoolForca)}, ProgramID)
}

// anchorDiscriminator computes the 8-byte tag Anchor prepends to accounts,
// events and instruction data: sha256("<prefix>:<name>")[..8].
func anchorDiscriminator(prefix, name string) (out [8]byte) {
	sum := sha256.Sum256([]byte(prefix + ":" + name))
	copy(out[:], sum[:8])
	return out
}
