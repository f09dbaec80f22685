package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

func handleHistory(user solana.PublicKey) {
	client, err := newVaultClient()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	fmt.Println(promptStyle.Render("\nFetching reward history... This can take a moment."))
	events, err := client.GetRewardHistory(cmdContext(), user, 200)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to fetch history: %v", err)))
		return
	}
	if len(events) == 0 {
		fmt.Println(infoStyle.Render("\nNo reward vault activity found."))
		return
	}

	fmt.Println(titleStyle.Render("\n📜 Reward History"))
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-18s", ev.Timestamp.Format("2006-01-02 15:04"), ev.Type)
		switch ev.Type {
		case "ClaimRPEvent":
			line += fmt.Sprintf("  gross %s  net %s  fees %s",
				formatForca(ev.AmountForca), formatForca(ev.NetForca), formatForca(ev.FeeC+ev.TaxD))
		case "ConvertToPPEvent":
			line += fmt.Sprintf("  %s -> %d.%06d PP",
				formatForca(ev.AmountForca), ev.AmountPpE6/1_000_000, ev.AmountPpE6%1_000_000)
		case "ConsumePPEvent", "GrantBonusPPEvent":
			line += fmt.Sprintf("  %d.%06d PP", ev.AmountPpE6/1_000_000, ev.AmountPpE6%1_000_000)
		default:
			line += fmt.Sprintf("  %s", formatForca(ev.AmountForca))
		}
		fmt.Println(promptStyle.Render("  " + line))
		fmt.Println(infoStyle.Render(fmt.Sprintf("    %s", ev.Signature)))
	}
}
