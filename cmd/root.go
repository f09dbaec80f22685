package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	figure "github.com/common-nighthawk/go-figure"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	reward_vault "github.com/qara-wq/flashorca-ally-devnet-sub000/rewardvault"
	"github.com/qara-wq/flashorca-ally-devnet-sub000/storage"
)

var rootCmd = &cobra.Command{
	Use:   "flashorca-cli",
	Short: "FlashORCA CLI reads your reward vault balances and builds claim payloads.",
	Long:  `An interactive command-line interface to inspect FlashORCA ally reward accounts, preview prices and fees, and prepare convert and claim instructions.`,
	Run:   run,
}

// run is the main entry point for the interactive CLI.
func run(cmd *cobra.Command, args []string) {
	GetRpcEndpoint()

	myFigure := figure.NewFigure("FLASHORCA", "larry3d", true)
	fmt.Println(titleStyle.Render(myFigure.String()))

	// The main application loop is wrapped in profile selection.
	for {
		wallet, err := runProfileSelection()
		if err != nil {
			fmt.Println("Exiting FlashORCA CLI.")
			os.Exit(0)
		}
		runInteractive(wallet)
	}
}

// runProfileSelection handles the UI for choosing or creating a wallet profile.
func runProfileSelection() (*storage.Wallet, error) {
	db, err := storage.Connect()
	if err != nil {
		panic(fmt.Sprintf("failed to connect to wallet storage: %v", err))
	}

	if !isInitialized(db) {
		runInit(db)
	}

	for {
		profiles, err := db.ListWallets()
		if err != nil {
			panic(fmt.Sprintf("failed to get wallet profiles: %v", err))
		}

		options := append(profiles, "Create New Profile", "Exit")

		selection := ""
		prompt := &survey.Select{
			Message: promptStyle.Render("Choose a profile to continue:"),
			Options: options,
		}
		survey.AskOne(prompt, &selection)

		switch selection {
		case "Create New Profile":
			handleCreateProfile(db)
			// Loop again to show the new profile in the list.
			continue
		case "Exit":
			return nil, fmt.Errorf("user exited")
		default:
			wallet, err := db.GetWallet(selection)
			if err != nil {
				panic(fmt.Sprintf("failed to get wallet for profile '%s': %v", selection, err))
			}
			return wallet, nil
		}
	}
}

func runInteractive(wallet *storage.Wallet) {
	fmt.Printf("\n---\n")
	fmt.Println(titleStyle.Render(fmt.Sprintf("Operating with profile: %s", wallet.Name)))
	fmt.Println(promptStyle.Render(fmt.Sprintf("Address: %s", wallet.PublicKey())))
	fmt.Printf("---\n\n")

	for {
		menuOptions := []string{
			"View Rewards Snapshot",
			"Price Quote",
			"Claim Fee Preview",
			"Build Convert Instruction",
			"Build Claim Instruction",
			"Reward History",
			"Derive Addresses",
			"Wallet Management",
			"Switch Profile",
			"Exit",
		}

		choice := ""
		menu := &survey.Select{
			Message:  promptStyle.Render("What would you like to do?"),
			Options:  menuOptions,
			PageSize: len(menuOptions),
		}
		survey.AskOne(menu, &choice)

		switch choice {
		case "View Rewards Snapshot":
			handleSnapshot(wallet.PublicKey())
		case "Price Quote":
			handleQuote()
		case "Claim Fee Preview":
			handleFeePreview(wallet.PublicKey())
		case "Build Convert Instruction":
			handleBuildConvert(wallet.PublicKey())
		case "Build Claim Instruction":
			handleBuildClaim(wallet.PublicKey())
		case "Reward History":
			handleHistory(wallet.PublicKey())
		case "Derive Addresses":
			handleDerive(wallet.PublicKey())
		case "Wallet Management":
			handleWalletManagement(wallet)
		case "Switch Profile":
			return
		case "Exit":
			fmt.Println("Exiting FlashORCA CLI.")
			os.Exit(0)
		}
	}
}

func runInit(db *storage.WalletStorage) {
	fmt.Println(titleStyle.Render("🚀 Welcome to FlashORCA! Let's get you set up."))
	fmt.Println(promptStyle.Render("   Creating new 'default' wallet profile..."))
	newWallet := solana.NewWallet()
	if err := db.SaveWallet("default", newWallet.PrivateKey); err != nil {
		panic(fmt.Sprintf("❌ Failed to save new wallet: %v", err))
	}
	fmt.Println(titleStyle.Render("\n✅ Initialization Complete!"))
	fmt.Println(promptStyle.Render("   Your wallet address:"), newWallet.PublicKey().String())
	fmt.Println(promptStyle.Render("\nPress Enter to continue..."))
	fmt.Scanln()
}

func isInitialized(db *storage.WalletStorage) bool {
	profiles, err := db.ListWallets()
	return err == nil && len(profiles) > 0
}

func handleCreateProfile(db *storage.WalletStorage) {
	name := ""
	prompt := &survey.Input{Message: "Enter a name for the new profile:"}
	survey.AskOne(prompt, &name, survey.WithValidator(survey.Required))

	if _, err := db.GetWallet(name); err == nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Profile '%s' already exists.", name)))
		return
	}

	newWallet := solana.NewWallet()
	if err := db.SaveWallet(name, newWallet.PrivateKey); err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to save new wallet: %v", err)))
		return
	}
	fmt.Println(titleStyle.Render("\n✅ Profile Created!"))
	fmt.Println(promptStyle.Render("   Address:"), newWallet.PublicKey().String())
}

func handleWalletManagement(wallet *storage.Wallet) {
	fmt.Println()
	menu := &survey.Select{
		Message: promptStyle.Render("Wallet Management:"),
		Options: []string{"View Address", "View Balance", "Export Wallet (UNSAFE)", "Back to Main Menu"},
	}
	var choice string
	survey.AskOne(menu, &choice)

	switch choice {
	case "View Address":
		fmt.Println(titleStyle.Render("\n🔑 Your Current Wallet Address:"))
		fmt.Println(wallet.PublicKey().String())
	case "View Balance":
		viewBalance(wallet.PublicKey())
	case "Export Wallet (UNSAFE)":
		exportWallet(wallet)
	case "Back to Main Menu":
		return
	}
}

func viewBalance(address solana.PublicKey) {
	client, err := newVaultClient()
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("Failed to create Solana client: %v", err)))
		return
	}
	fmt.Println(promptStyle.Render("\nChecking balance... Please wait."))
	resp, err := client.RPC().GetBalance(cmdContext(), address, rpc.CommitmentConfirmed)
	if err != nil {
		fmt.Println(warningStyle.Render(fmt.Sprintf("\n❌ Failed to get balance: %v", err)))
		return
	}
	balanceSOL := float64(resp.Value) / float64(solana.LAMPORTS_PER_SOL)
	fmt.Println(titleStyle.Render("\n💰 Your Wallet Balance:"))
	fmt.Printf("   %.9f SOL\n", balanceSOL)
}

func exportWallet(wallet *storage.Wallet) {
	fmt.Println(warningStyle.Render("\n⚠️ WARNING: EXPORTING YOUR PRIVATE KEY ⚠️"))
	fmt.Println(promptStyle.Render("Sharing your private key can result in the permanent loss of your funds."))
	confirm := false
	prompt := &survey.Confirm{Message: "Are you absolutely sure?", Default: false}
	survey.AskOne(prompt, &confirm)
	if !confirm {
		fmt.Println(promptStyle.Render("\nExport cancelled."))
		return
	}
	fmt.Println(titleStyle.Render("\n🔐 Your Private Key (Base58):"))
	fmt.Println(wallet.PrivateKey.String())
}

// newVaultClient builds the shared read-only client for interactive handlers.
func newVaultClient() (*reward_vault.Client, error) {
	return reward_vault.NewClient(reward_vault.ClientConfig{
		Endpoint: GetRpcEndpoint(),
		Logger:   NewLogger(),
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
