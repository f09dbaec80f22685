package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

var (
	rpcEndpoint         = "https://api.devnet.solana.com"
	endpointInitialized = false
)

// GetRpcEndpoint loads environment variables and returns the best available RPC endpoint.
func GetRpcEndpoint() string {
	if !endpointInitialized {
		if err := godotenv.Load(); err != nil {
			slog.Info(".env file not found, using default public RPC endpoint")
		}

		if heliusApiKey := os.Getenv("HELIUS_API_KEY"); heliusApiKey != "" {
			rpcEndpoint = fmt.Sprintf("https://devnet.helius-rpc.com/?api-key=%s", heliusApiKey)
			slog.Info("using Helius RPC endpoint")
		}
		if custom := os.Getenv("FLASHORCA_RPC_ENDPOINT"); custom != "" {
			rpcEndpoint = custom
		}
		endpointInitialized = true
	}
	return rpcEndpoint
}

// NewLogger builds the CLI's logger. FLASHORCA_DEBUG=1 enables debug output.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("FLASHORCA_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
