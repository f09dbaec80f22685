package reward_vault

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"
)

var (
	initIdlOnce sync.Once
	initIdlErr  error
	idlData     *IDL
	// Map of event discriminators to event names.
	eventNameMap map[[8]byte]string
)

// initializeIDL loads and parses the embedded IDL once.
func initializeIDL() error {
	initIdlOnce.Do(func() {
		idlData, initIdlErr = ParseIDL([]byte(idlJSON))
		if initIdlErr != nil {
			return
		}
		eventNameMap = make(map[[8]byte]string)
		for _, event := range idlData.Events {
			if len(event.Discriminator) != 8 {
				continue
			}
			var disc [8]byte
			for i, b := range event.Discriminator {
				disc[i] = byte(b)
			}
			eventNameMap[disc] = event.Name
		}
	})
	return initIdlErr
}

// ProgramErrorMessage maps an on-chain error code to its message, or ""
// when the code is not one of the program's.
func ProgramErrorMessage(code int) string {
	if err := initializeIDL(); err != nil {
		return ""
	}
	return idlData.ErrorMessage(code)
}

// RewardEvent is one reward vault event observed in a transaction log,
// flattened for display. Which amount fields are set depends on Type.
type RewardEvent struct {
	Signature   solana.Signature `json:"signature"`
	Timestamp   time.Time        `json:"timestamp"`
	Type        string           `json:"type"`
	User        solana.PublicKey `json:"user,omitempty"`
	AllyNftMint solana.PublicKey `json:"allyNftMint,omitempty"`
	AmountForca uint64           `json:"amountForca,omitempty"`
	AmountPpE6  uint64           `json:"amountPpE6,omitempty"`
	NetForca    uint64           `json:"netForca,omitempty"`
	FeeC        uint64           `json:"feeC,omitempty"`
	TaxD        uint64           `json:"taxD,omitempty"`
}

const historyFetchConcurrency = 8

// GetRewardHistory scans the most recent transactions touching user and
// decodes every reward vault event found in their logs, newest first.
// Transactions that cannot be fetched are skipped, not fatal.
func (c *Client) GetRewardHistory(ctx context.Context, user solana.PublicKey, limit int) ([]RewardEvent, error) {
	if err := initializeIDL(); err != nil {
		return nil, fmt.Errorf("failed to initialize IDL: %w", err)
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	signatures, err := c.rpc.GetSignaturesForAddressWithOpts(ctx, user, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction signatures: %w", err)
	}

	events := make([][]RewardEvent, len(signatures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFetchConcurrency)
	for i, sigInfo := range signatures {
		i, sigInfo := i, sigInfo
		g.Go(func() error {
			version := uint64(0)
			tx, err := c.rpc.GetTransaction(gctx, sigInfo.Signature, &rpc.GetTransactionOpts{
				Encoding:                       solana.EncodingBase64,
				Commitment:                     c.commitment,
				MaxSupportedTransactionVersion: &version,
			})
			if err != nil {
				c.log.Warn("failed to fetch transaction", "signature", sigInfo.Signature, "err", err)
				return nil
			}
			events[i] = parseRewardEvents(tx, sigInfo.Signature)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []RewardEvent
	for _, batch := range events {
		out = append(out, batch...)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// parseRewardEvents extracts reward vault events from a transaction's logs.
func parseRewardEvents(tx *rpc.GetTransactionResult, signature solana.Signature) []RewardEvent {
	if tx == nil || tx.Meta == nil || tx.Meta.LogMessages == nil {
		return nil
	}
	var timestamp time.Time
	if tx.BlockTime != nil {
		timestamp = tx.BlockTime.Time()
	}

	var out []RewardEvent
	for _, logLine := range tx.Meta.LogMessages {
		if !strings.Contains(logLine, "Program data: ") {
			continue
		}
		parts := strings.Split(logLine, "Program data: ")
		if len(parts) < 2 {
			continue
		}
		eventData, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
		if err != nil || len(eventData) < 8 {
			continue
		}
		var disc [8]byte
		copy(disc[:], eventData[:8])
		name, found := eventNameMap[disc]
		if !found {
			continue
		}

		ev := RewardEvent{Signature: signature, Timestamp: timestamp, Type: name}
		switch name {
		case "ConvertToPPEvent":
			parsed, err := ParseEvent_ConvertToPP(eventData)
			if err != nil {
				continue
			}
			ev.User = parsed.User
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountForca = parsed.AmountForca
			ev.AmountPpE6 = parsed.PpDelta
		case "ClaimRPEvent":
			parsed, err := ParseEvent_ClaimRP(eventData)
			if err != nil {
				continue
			}
			ev.User = parsed.User
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountForca = parsed.AmountForca
			ev.NetForca = parsed.Net
			ev.FeeC = parsed.FeeC
			ev.TaxD = parsed.TaxD
		case "AllocateRPEvent":
			parsed, err := ParseEvent_AllocateRP(eventData)
			if err != nil {
				continue
			}
			ev.User = parsed.User
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountForca = parsed.ForcaEquivAmount
		case "CancelRPEvent":
			parsed, err := ParseEvent_CancelRP(eventData)
			if err != nil {
				continue
			}
			ev.User = parsed.User
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountForca = parsed.CancelAmount
		case "ConsumePPEvent":
			parsed, err := ParseEvent_ConsumePP(eventData)
			if err != nil {
				continue
			}
			ev.User = parsed.User
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountPpE6 = parsed.AmountPpE6
		case "GrantBonusPPEvent":
			parsed, err := ParseEvent_GrantBonusPP(eventData)
			if err != nil {
				continue
			}
			ev.User = parsed.User
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountPpE6 = parsed.AmountPpE6
		case "AllyDepositEvent":
			parsed, err := ParseEvent_AllyDeposit(eventData)
			if err != nil {
				continue
			}
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountForca = parsed.Amount
		case "AllyWithdrawEvent":
			parsed, err := ParseEvent_AllyWithdraw(eventData)
			if err != nil {
				continue
			}
			ev.AllyNftMint = parsed.AllyNftMint
			ev.AmountForca = parsed.Amount
		default:
			continue
		}
		out = append(out, ev)
	}
	return out
}
