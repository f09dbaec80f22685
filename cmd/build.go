package cmd

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gagliardetto/solana-go"

	reward_vault "github.com/qara-wq/flashorca-ally-devnet-sub000/rewardvault"
)

func promptAllyMint() (solana.PublicKey, error) {
	input := ""
	prompt := &survey.Input{Message: "Enter the ally NFT mint address:"}
	survey.AskOne(prompt, &input, survey.WithValidator(survey.Required))
	return solana.PublicKeyFromBase58(input)
}

// promptForcaAmount asks for a FORCA amount and converts it to 1e6 units.
func promptForcaAmount(message string) (uint64, error) {
	input := ""
	prompt := &survey.Input{Message: message}
	survey.AskOne(prompt, &input, survey.WithValidator(survey.Required))
	amount, err := strconv.ParseFloat(input, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("invalid amount %q", input)
	}
	return uint64(amount * 1_000_000), nil
}

func handleFeePreview(user solana.PublicKey) {
	mint, err := promptAllyMint()
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid ally NFT mint."))
		return
	}
	amount, err := promptForcaAmount("Enter FORCA amount to claim:")
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	client, err := newVaultClient()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	state, err := client.FetchVaultState(cmdContext())
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to fetch vault config: %v", err)))
		return
	}
	ledger, err := client.FetchUserLedger(cmdContext(), user, mint)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to fetch ledger: %v", err)))
		return
	}

	fees, err := reward_vault.PreviewClaimFees(state, ledger, amount)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Fee preview failed: %v", err)))
		return
	}
	fmt.Println(titleStyle.Render("\n🧾 Claim Fee Preview"))
	fmt.Printf("   Gross:    %s\n", formatForca(fees.AmountForca))
	fmt.Printf("   Fee (C):  %s (%d bps)\n", formatForca(fees.FeeC), state.FeeCBps)
	fmt.Printf("   Tax (D):  %s (%d bps on excess over watermark)\n", formatForca(fees.TaxD), state.TaxDBps)
	fmt.Println(infoStyle.Render(fmt.Sprintf("   Net:      %s", formatForca(fees.NetForca))))
}

func handleBuildConvert(user solana.PublicKey) {
	mint, err := promptAllyMint()
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid ally NFT mint."))
		return
	}
	amount, err := promptForcaAmount("Enter FORCA amount to convert:")
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	fmt.Println(promptStyle.Render("\nResolving prices... Please wait."))
	quote, state, err := fetchQuote()
	if err != nil {
		fmt.Println(warningStyle.Render("\n❌ Price unavailable, cannot build instruction."))
		fmt.Println(promptStyle.Render(fmt.Sprintf("   Reason: %v", err)))
		return
	}

	client, err := newVaultClient()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	ally, err := client.FetchAlly(cmdContext(), mint)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to fetch ally record: %v", err)))
		return
	}
	if ally == nil {
		fmt.Println(warningStyle.Render("Ally record not yet created."))
		return
	}
	userAta, _, err := solana.FindAssociatedTokenAddress(user, state.ForcaMint)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to derive token account: %v", err)))
		return
	}

	ix, err := reward_vault.NewConvertToScopedPPInstruction(
		user, mint, userAta, ally.VaultAta, state, int64(amount), quote.SolUsdE6, quote.ForcaPerSolE6)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to build instruction: %v", err)))
		return
	}
	renderInstruction("Convert To Scoped PP", ix)
}

func handleBuildClaim(user solana.PublicKey) {
	mint, err := promptAllyMint()
	if err != nil {
		fmt.Println(warningStyle.Render("Invalid ally NFT mint."))
		return
	}
	amount, err := promptForcaAmount("Enter FORCA amount to claim:")
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	client, err := newVaultClient()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	state, err := client.FetchVaultState(cmdContext())
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to fetch vault config: %v", err)))
		return
	}
	ally, err := client.FetchAlly(cmdContext(), mint)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to fetch ally record: %v", err)))
		return
	}
	if ally == nil {
		fmt.Println(warningStyle.Render("Ally record not yet created."))
		return
	}
	userAta, _, err := solana.FindAssociatedTokenAddress(user, state.ForcaMint)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to derive token account: %v", err)))
		return
	}

	ix, err := reward_vault.NewClaimRPInstruction(user, mint, userAta, ally.VaultAta, state, int64(amount))
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to build instruction: %v", err)))
		return
	}
	renderInstruction("Claim RP", ix)
}

// renderInstruction prints a built instruction for an external signer or
// transaction builder to wrap and submit.
func renderInstruction(name string, ix solana.Instruction) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("\n🛠  %s Instruction", name)))
	fmt.Printf("   Program: %s\n", ix.ProgramID())
	fmt.Println(promptStyle.Render("   Accounts:"))
	for i, meta := range ix.Accounts() {
		role := ""
		if meta.IsSigner {
			role += " signer"
		}
		if meta.IsWritable {
			role += " writable"
		}
		fmt.Printf("   %2d. %s%s\n", i, meta.PublicKey, role)
	}
	data, err := ix.Data()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to serialize data: %v", err)))
		return
	}
	fmt.Println(promptStyle.Render("   Data (base64):"))
	fmt.Printf("   %s\n", base64.StdEncoding.EncodeToString(data))
}
