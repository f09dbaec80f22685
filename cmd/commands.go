package cmd

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	reward_vault "github.com/qara-wq/flashorca-ally-devnet-sub000/rewardvault"
)

// Non-interactive subcommands for scripting alongside the interactive menu.

var (
	flagUser  string
	flagMints string
	flagLimit int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a reward snapshot for a user across ally mints",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := solana.PublicKeyFromBase58(flagUser)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		var mints []solana.PublicKey
		for _, part := range strings.Split(flagMints, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			mint, err := solana.PublicKeyFromBase58(part)
			if err != nil {
				return fmt.Errorf("invalid mint %q: %w", part, err)
			}
			mints = append(mints, mint)
		}
		if len(mints) == 0 {
			return fmt.Errorf("--mints is required")
		}

		client, err := newVaultClient()
		if err != nil {
			return err
		}
		assembler, err := reward_vault.NewAssembler(reward_vault.SnapshotConfig{
			Logger: NewLogger(),
			Reader: client,
		})
		if err != nil {
			return err
		}
		snap, err := assembler.Assemble(cmd.Context(), user, mints)
		if err != nil {
			return err
		}
		renderSnapshot(snap)
		return nil
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print the current SOL/USD and FORCA/SOL prices",
	Run: func(cmd *cobra.Command, args []string) {
		handleQuote()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print reward vault events for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := solana.PublicKeyFromBase58(flagUser)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		client, err := newVaultClient()
		if err != nil {
			return err
		}
		events, err := client.GetRewardHistory(cmd.Context(), user, flagLimit)
		if err != nil {
			return err
		}
		for _, ev := range events {
			fmt.Printf("%s  %-18s  %s  %s\n",
				ev.Timestamp.Format("2006-01-02 15:04"), ev.Type, formatForca(ev.AmountForca), ev.Signature)
		}
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&flagUser, "user", "", "user wallet address (base58)")
	snapshotCmd.Flags().StringVar(&flagMints, "mints", "", "comma separated ally NFT mints")
	snapshotCmd.MarkFlagRequired("user")

	historyCmd.Flags().StringVar(&flagUser, "user", "", "user wallet address (base58)")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 200, "maximum transactions to scan")
	historyCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(snapshotCmd, quoteCmd, historyCmd)
}
