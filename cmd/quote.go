package cmd

import (
	"fmt"

	reward_vault "github.com/qara-wq/flashorca-ally-devnet-sub000/rewardvault"
)

// fetchQuote resolves the current price pair the way the program would.
func fetchQuote() (*reward_vault.Quote, *reward_vault.VaultState, error) {
	client, err := newVaultClient()
	if err != nil {
		return nil, nil, err
	}
	state, err := client.FetchVaultState(cmdContext())
	if err != nil {
		return nil, nil, err
	}
	engine, err := reward_vault.NewQuoteEngine(reward_vault.QuoteConfig{
		Logger: NewLogger(),
		Reader: client,
	})
	if err != nil {
		return nil, nil, err
	}
	quote, err := engine.Resolve(cmdContext(), state)
	if err != nil {
		return nil, state, err
	}
	return quote, state, nil
}

func handleQuote() {
	fmt.Println(promptStyle.Render("\nResolving prices... Please wait."))
	quote, _, err := fetchQuote()
	if err != nil {
		// Never show a stale or zero price; say it is unavailable and why.
		fmt.Println(warningStyle.Render("\n❌ Price unavailable."))
		fmt.Println(promptStyle.Render(fmt.Sprintf("   Reason: %v", err)))
		return
	}

	fmt.Println(titleStyle.Render("\n💱 Current Prices"))
	if quote.Mock {
		fmt.Println(infoStyle.Render("   (mock oracle mode)"))
	}
	fmt.Printf("   SOL/USD:      %s\n", formatUsd(quote.SolUsdE6))
	fmt.Printf("   FORCA/SOL:    %d.%06d FORCA per SOL\n", quote.ForcaPerSolE6/1_000_000, quote.ForcaPerSolE6%1_000_000)
	fmt.Printf("   FORCA/USD:    %s\n", formatUsd(quote.ForcaUsdE6))
	fmt.Printf("   Computed at:  %s\n", quote.ComputedAt.Format("2006-01-02 15:04:05 MST"))
}
