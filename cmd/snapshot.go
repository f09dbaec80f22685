package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gagliardetto/solana-go"

	reward_vault "github.com/qara-wq/flashorca-ally-devnet-sub000/rewardvault"
)

func cmdContext() context.Context {
	return context.Background()
}

// formatForca renders a 1e6 fixed point FORCA amount.
func formatForca(v uint64) string {
	return fmt.Sprintf("%d.%06d FORCA", v/1_000_000, v%1_000_000)
}

// formatUsd renders a 1e6 fixed point USD amount.
func formatUsd(v uint64) string {
	return fmt.Sprintf("$%d.%06d", v/1_000_000, v%1_000_000)
}

// promptAllyMints asks for ally NFT mints, comma separated, with
// FLASHORCA_ALLY_MINTS as the default.
func promptAllyMints() ([]solana.PublicKey, error) {
	input := ""
	prompt := &survey.Input{
		Message: "Enter ally NFT mint addresses (comma separated):",
		Default: os.Getenv("FLASHORCA_ALLY_MINTS"),
	}
	survey.AskOne(prompt, &input, survey.WithValidator(survey.Required))

	var mints []solana.PublicKey
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mint, err := solana.PublicKeyFromBase58(part)
		if err != nil {
			return nil, fmt.Errorf("invalid mint %q: %w", part, err)
		}
		mints = append(mints, mint)
	}
	if len(mints) == 0 {
		return nil, fmt.Errorf("no mints entered")
	}
	return mints, nil
}

func handleSnapshot(user solana.PublicKey) {
	mints, err := promptAllyMints()
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}
	client, err := newVaultClient()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	assembler, err := reward_vault.NewAssembler(reward_vault.SnapshotConfig{
		Logger: NewLogger(),
		Reader: client,
	})
	if err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		return
	}

	fmt.Println(promptStyle.Render("\nAssembling snapshot... Please wait."))
	snap, err := assembler.Assemble(cmdContext(), user, mints)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Snapshot failed: %v", err)))
		return
	}
	renderSnapshot(snap)
}

func renderSnapshot(snap *reward_vault.Snapshot) {
	fmt.Println(titleStyle.Render("\n📊 Rewards Snapshot"))
	fmt.Println(promptStyle.Render(fmt.Sprintf("User: %s", snap.User)))
	fmt.Println(promptStyle.Render(fmt.Sprintf("Taken at: %s", snap.TakenAt.Format("2006-01-02 15:04:05 MST"))))

	switch {
	case snap.Vault.Err != nil:
		fmt.Println(warningStyle.Render(fmt.Sprintf("Vault config unreadable: %v", snap.Vault.Err)))
	case !snap.Vault.Exists:
		fmt.Println(warningStyle.Render("Vault config account not yet created."))
	case snap.Vault.State.Paused:
		fmt.Println(warningStyle.Render("⚠️ The vault is currently PAUSED."))
	}

	switch {
	case snap.Profile.Err != nil:
		fmt.Println(warningStyle.Render(fmt.Sprintf("PoP profile unreadable: %v", snap.Profile.Err)))
	case !snap.Profile.Exists:
		fmt.Println(infoStyle.Render("PoP profile: not yet created (treated as Suspicious)"))
	default:
		fmt.Println(infoStyle.Render(fmt.Sprintf("PoP profile: %s", snap.Profile.Profile.Level)))
	}

	for i := range snap.Allies {
		as := &snap.Allies[i]
		fmt.Println(titleStyle.Render(fmt.Sprintf("\nAlly %s", as.NftMint)))

		switch {
		case as.Ally.Err != nil:
			fmt.Println(warningStyle.Render(fmt.Sprintf("   Ally record unreadable: %v", as.Ally.Err)))
			continue
		case !as.Ally.Exists:
			fmt.Println(warningStyle.Render("   Ally record not yet created."))
			continue
		}
		ally := as.Ally.Ally
		fmt.Printf("   Role: %s   Benefit: %s (%d bps)   PoP enforced: %v\n",
			ally.Role, ally.BenefitMode, ally.BenefitBps, ally.PopEnforced)
		fmt.Printf("   Vault balance: %s   Reserved: %s\n",
			formatForca(ally.BalanceForca), formatForca(ally.RpReserved))

		switch {
		case as.Ledger.Err != nil:
			fmt.Println(warningStyle.Render(fmt.Sprintf("   Ledger unreadable: %v", as.Ledger.Err)))
		case !as.Ledger.Exists:
			fmt.Println(infoStyle.Render("   Ledger: not yet created (no rewards allocated)"))
		default:
			ledger := as.Ledger.Ledger
			fmt.Printf("   Claimable RP: %s   PP balance: %d.%06d PP\n",
				formatForca(ledger.RpClaimableForca), ledger.PpBalance/1_000_000, ledger.PpBalance%1_000_000)
			fmt.Printf("   Total claimed: %s\n", formatForca(ledger.TotalClaimedForca))
		}

		if as.Status != nil {
			st := as.Status
			fmt.Printf("   Daily allowance: %s used, %s remaining\n",
				formatUsd(st.UsedUsdE6Today), formatUsd(st.RemainingUsdE6))
			if st.MonthLimited {
				fmt.Printf("   Monthly claims: %d used, %d remaining\n",
					st.MonthClaimsUsed, st.MonthClaimsRemaining)
			}
			if st.CooldownRemainingSecs > 0 {
				fmt.Println(warningStyle.Render(fmt.Sprintf("   Cooldown: %ds remaining", st.CooldownRemainingSecs)))
			}
			fmt.Println(infoStyle.Render(fmt.Sprintf("   Effective claimable now: %s", formatForca(as.EffectiveClaimable))))
		}
	}
}
