package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	reward_vault "github.com/qara-wq/flashorca-ally-devnet-sub000/rewardvault"
)

func handleDerive(user solana.PublicKey) {
	mint, err := promptAllyMint()
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid ally NFT mint."))
		return
	}
	fmt.Println(titleStyle.Render("\n🧭 Derived Addresses"))
	fmt.Printf("   Program:       %s\n", reward_vault.ProgramID)

	printPDA := func(label string, derive func() (solana.PublicKey, uint8, error)) {
		addr, bump, err := derive()
		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("   %-14s derivation failed: %v", label, err)))
			return
		}
		fmt.Printf("   %-14s %s (bump %d)\n", label, addr, bump)
	}

	printPDA("Vault state:", reward_vault.GetVaultStatePDA)
	printPDA("Vault signer:", reward_vault.GetVaultSignerPDA)
	printPDA("Ally:", func() (solana.PublicKey, uint8, error) { return reward_vault.GetAllyPDA(mint) })
	printPDA("Ally vault:", func() (solana.PublicKey, uint8, error) { return reward_vault.GetAllyVaultPDA(mint) })
	printPDA("PoP profile:", func() (solana.PublicKey, uint8, error) { return reward_vault.GetPopProfilePDA(user) })
	printPDA("User ledger:", func() (solana.PublicKey, uint8, error) { return reward_vault.GetUserLedgerPDA(user, mint) })
	printPDA("Claim guard:", func() (solana.PublicKey, uint8, error) { return reward_vault.GetClaimGuardPDA(user, mint) })
	printPDA("Mock oracle:", reward_vault.GetMockOracleSolPDA)
	printPDA("Mock pool:", reward_vault.GetMockPoolForcaPDA)
}
