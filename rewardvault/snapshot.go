package reward_vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// AccountSlot describes one fetched account inside a snapshot. A missing
// account is Exists=false with a nil Err; Err is set only for transport or
// decode failures on that one slot, never for absence.
type AccountSlot struct {
	Address solana.PublicKey
	Exists  bool
	Err     error
}

// VaultStateSlot carries the decoded singleton configuration.
type VaultStateSlot struct {
	AccountSlot
	State *VaultState
}

// PopProfileSlot carries the user's decoded PoP profile.
type PopProfileSlot struct {
	AccountSlot
	Profile *PopProfile
}

// AllySlot carries one decoded ally record.
type AllySlot struct {
	AccountSlot
	Ally *AllyAccount
}

// UserLedgerSlot carries the user's decoded ledger under one ally.
type UserLedgerSlot struct {
	AccountSlot
	Ledger *UserLedger
}

// ClaimGuardSlot carries the user's decoded claim guard under one ally.
type ClaimGuardSlot struct {
	AccountSlot
	Guard *ClaimGuard
}

// AllySnapshot groups everything snapshot assembly reads for one ally.
type AllySnapshot struct {
	NftMint solana.PublicKey
	Ally    AllySlot
	Ledger  UserLedgerSlot
	Guard   ClaimGuardSlot

	// Guard status and effective claimable are derived after the reads, and
	// only when the ally record decoded cleanly.
	Status             *GuardStatus
	EffectiveClaimable uint64
}

// Snapshot is a point-in-time view of one user across a set of allies.
type Snapshot struct {
	User    solana.PublicKey
	TakenAt time.Time
	Vault   VaultStateSlot
	Profile PopProfileSlot
	Allies  []AllySnapshot
}

// SnapshotConfig configures an Assembler.
type SnapshotConfig struct {
	Logger *slog.Logger
	Reader AccountReader
	Clock  clockwork.Clock
}

func (c *SnapshotConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Reader == nil {
		return errors.New("account reader is required")
	}
	return nil
}

// Assembler builds user snapshots with one concurrent read per account.
// Individual read or decode failures land in their slot; only address
// derivation failures abort the whole assembly.
type Assembler struct {
	log    *slog.Logger
	reader AccountReader
	clock  clockwork.Clock
}

func NewAssembler(cfg SnapshotConfig) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot config: %w", err)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Assembler{
		log:    cfg.Logger,
		reader: cfg.Reader,
		clock:  clock,
	}, nil
}

// readSlot fetches one account and records absence or failure on the slot.
// It returns the raw data only when the account exists and the read worked.
func (a *Assembler) readSlot(ctx context.Context, slot *AccountSlot) []byte {
	data, err := a.reader.ReadAccount(ctx, slot.Address)
	if err != nil {
		a.log.Warn("account read failed", "address", slot.Address, "err", err)
		slot.Err = err
		return nil
	}
	if data == nil {
		return nil
	}
	slot.Exists = true
	return data
}

// Assemble reads the vault state, the user's PoP profile, and the per-ally
// ledger, guard and ally records for every mint in allyMints, all in
// parallel. Slots for accounts that do not exist come back Exists=false
// with zero records and the derived address filled in.
func (a *Assembler) Assemble(ctx context.Context, user solana.PublicKey, allyMints []solana.PublicKey) (*Snapshot, error) {
	snap := &Snapshot{
		User:   user,
		Allies: make([]AllySnapshot, len(allyMints)),
	}

	var err error
	if snap.Vault.Address, _, err = GetVaultStatePDA(); err != nil {
		return nil, fmt.Errorf("derive vault state: %w", err)
	}
	if snap.Profile.Address, _, err = GetPopProfilePDA(user); err != nil {
		return nil, fmt.Errorf("derive pop profile: %w", err)
	}
	for i, mint := range allyMints {
		as := &snap.Allies[i]
		as.NftMint = mint
		if as.Ally.Address, _, err = GetAllyPDA(mint); err != nil {
			return nil, fmt.Errorf("derive ally for %s: %w", mint, err)
		}
		if as.Ledger.Address, _, err = GetUserLedgerPDA(user, mint); err != nil {
			return nil, fmt.Errorf("derive user ledger for %s: %w", mint, err)
		}
		if as.Guard.Address, _, err = GetClaimGuardPDA(user, mint); err != nil {
			return nil, fmt.Errorf("derive claim guard for %s: %w", mint, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if data := a.readSlot(gctx, &snap.Vault.AccountSlot); data != nil {
			snap.Vault.State, snap.Vault.Err = ParseAccount_VaultState(data)
		}
		return nil
	})
	g.Go(func() error {
		if data := a.readSlot(gctx, &snap.Profile.AccountSlot); data != nil {
			snap.Profile.Profile, snap.Profile.Err = ParseAccount_PopProfile(data)
		}
		return nil
	})
	for i := range snap.Allies {
		as := &snap.Allies[i]
		g.Go(func() error {
			if data := a.readSlot(gctx, &as.Ally.AccountSlot); data != nil {
				as.Ally.Ally, as.Ally.Err = ParseAccount_AllyAccount(data)
			}
			return nil
		})
		g.Go(func() error {
			if data := a.readSlot(gctx, &as.Ledger.AccountSlot); data != nil {
				as.Ledger.Ledger, as.Ledger.Err = ParseAccount_UserLedger(data)
			}
			return nil
		})
		g.Go(func() error {
			if data := a.readSlot(gctx, &as.Guard.AccountSlot); data != nil {
				as.Guard.Guard, as.Guard.Err = ParseAccount_ClaimGuard(data)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.TakenAt = a.clock.Now()

	// Derived views use the vault's stored FORCA/USD price, keeping
	// snapshot assembly free of oracle reads. The quote engine gives the
	// exact on-chain price path when that precision matters.
	var forcaUsdE6 uint64
	if snap.Vault.State != nil {
		forcaUsdE6 = snap.Vault.State.ForcaUsdE6
	}
	for i := range snap.Allies {
		as := &snap.Allies[i]
		if as.Ally.Ally == nil {
			continue
		}
		status := ComputeGuardStatus(as.Guard.Guard, as.Ally.Ally, forcaUsdE6, snap.TakenAt)
		as.Status = &status
		as.EffectiveClaimable = EffectiveClaimable(as.Ledger.Ledger, snap.Profile.Profile, as.Ally.Ally, status)
	}
	return snap, nil
}
