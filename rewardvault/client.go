package reward_vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// AccountReader fetches raw account data. A missing account is reported as
// (nil, nil), never as an error; errors are reserved for transport failures.
type AccountReader interface {
	ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// ClientConfig configures a read-only RPC client.
type ClientConfig struct {
	Endpoint   string
	Commitment rpc.CommitmentType
	Logger     *slog.Logger
}

func (c *ClientConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Client is a read-only view over the reward vault program's accounts.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	log        *slog.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &Client{
		rpc:        rpc.New(cfg.Endpoint),
		commitment: commitment,
		log:        cfg.Logger,
	}, nil
}

// RPC exposes the underlying connection for callers that need raw access,
// such as transaction history scans.
func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

// ReadAccount implements AccountReader.
func (c *Client) ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	resp, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account %s: %w", address, err)
	}
	if resp == nil || resp.Value == nil {
		return nil, nil
	}
	return resp.Value.Data.GetBinary(), nil
}

// FetchVaultState reads and decodes the singleton configuration. A missing
// vault state means the program is not initialized, which is an error here.
func (c *Client) FetchVaultState(ctx context.Context) (*VaultState, error) {
	addr, _, err := GetVaultStatePDA()
	if err != nil {
		return nil, fmt.Errorf("derive vault state: %w", err)
	}
	data, err := c.ReadAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("vault state account %s does not exist", addr)
	}
	return ParseAccount_VaultState(data)
}

// FetchAlly reads the ally record for an NFT mint. Returns (nil, nil) when
// the ally has not been registered.
func (c *Client) FetchAlly(ctx context.Context, nftMint solana.PublicKey) (*AllyAccount, error) {
	addr, _, err := GetAllyPDA(nftMint)
	if err != nil {
		return nil, fmt.Errorf("derive ally: %w", err)
	}
	data, err := c.ReadAccount(ctx, addr)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseAccount_AllyAccount(data)
}

// FetchUserLedger reads a user's reward ledger under an ally. Returns
// (nil, nil) when the user has no ledger yet.
func (c *Client) FetchUserLedger(ctx context.Context, user, nftMint solana.PublicKey) (*UserLedger, error) {
	addr, _, err := GetUserLedgerPDA(user, nftMint)
	if err != nil {
		return nil, fmt.Errorf("derive user ledger: %w", err)
	}
	data, err := c.ReadAccount(ctx, addr)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseAccount_UserLedger(data)
}

// FetchPopProfile reads a user's proof-of-personhood profile. Returns
// (nil, nil) when no profile has been set.
func (c *Client) FetchPopProfile(ctx context.Context, user solana.PublicKey) (*PopProfile, error) {
	addr, _, err := GetPopProfilePDA(user)
	if err != nil {
		return nil, fmt.Errorf("derive pop profile: %w", err)
	}
	data, err := c.ReadAccount(ctx, addr)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseAccount_PopProfile(data)
}

// FetchClaimGuard reads the rolling quota record for a user under an ally.
// Returns (nil, nil) before the user's first claim.
func (c *Client) FetchClaimGuard(ctx context.Context, user, nftMint solana.PublicKey) (*ClaimGuard, error) {
	addr, _, err := GetClaimGuardPDA(user, nftMint)
	if err != nil {
		return nil, fmt.Errorf("derive claim guard: %w", err)
	}
	data, err := c.ReadAccount(ctx, addr)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseAccount_ClaimGuard(data)
}

// FetchTokenBalance reads mint, owner and amount from an SPL token account.
func (c *Client) FetchTokenBalance(ctx context.Context, address solana.PublicKey) (*TokenAccountBalance, error) {
	data, err := c.ReadAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("token account %s does not exist", address)
	}
	return ParseTokenAccountBalance(data)
}
