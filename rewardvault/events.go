package reward_vault

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Event discriminators, sha256("event:<Name>")[..8].
var (
	Event_ConvertToPP  = anchorDiscriminator("event", "ConvertToPPEvent")
	Event_ClaimRP      = anchorDiscriminator("event", "ClaimRPEvent")
	Event_AllocateRP   = anchorDiscriminator("event", "AllocateRPEvent")
	Event_CancelRP     = anchorDiscriminator("event", "CancelRPEvent")
	Event_ConsumePP    = anchorDiscriminator("event", "ConsumePPEvent")
	Event_GrantBonusPP = anchorDiscriminator("event", "GrantBonusPPEvent")
	Event_AllyDeposit  = anchorDiscriminator("event", "AllyDepositEvent")
	Event_AllyWithdraw = anchorDiscriminator("event", "AllyWithdrawEvent")
)

// ConvertToPPEvent is emitted when a user swaps claimable FORCA for scoped
// purchase points.
type ConvertToPPEvent struct {
	User               solana.PublicKey
	AllyNftMint        solana.PublicKey
	AmountForca        uint64
	MarginB            uint64
	PpDelta            uint64
	SolPriceUsdE6      uint64
	ForcaPerSolE6      uint64
	PythPriceFeed      solana.PublicKey
	CanonicalPool      solana.PublicKey
	VerifyPrices       bool
	OracleToleranceBps uint16
	PythExpoI32        int32
	PythConfE8         uint64
	PythPublishTs      int64
	CurHwm             uint64
	NewHwm             uint64
	TaxHwm             uint64
	BenefitMode        uint8
	BenefitBps         uint16
	DiscountForca      uint64
	BonusPpE6          uint64
}

// ClaimRPEvent is emitted when a user claims FORCA through the vault.
type ClaimRPEvent struct {
	User        solana.PublicKey
	AllyNftMint solana.PublicKey
	AmountForca uint64
	Net         uint64
	FeeC        uint64
	TaxD        uint64
	CurHwm      uint64
	NewHwm      uint64
	TaxHwm      uint64
}

// AllocateRPEvent is emitted when an ally allocates claimable rewards.
type AllocateRPEvent struct {
	User             solana.PublicKey
	AllyNftMint      solana.PublicKey
	ForcaEquivAmount uint64
}

// CancelRPEvent is emitted when an ally cancels a prior allocation.
type CancelRPEvent struct {
	User         solana.PublicKey
	AllyNftMint  solana.PublicKey
	CancelAmount uint64
}

// ConsumePPEvent is emitted when scoped purchase points are spent.
type ConsumePPEvent struct {
	User        solana.PublicKey
	AllyNftMint solana.PublicKey
	AmountPpE6  uint64
}

// GrantBonusPPEvent is emitted when an ally grants bonus purchase points.
type GrantBonusPPEvent struct {
	User        solana.PublicKey
	AllyNftMint solana.PublicKey
	AmountPpE6  uint64
}

// AllyDepositEvent is emitted when an ally funds its vault.
type AllyDepositEvent struct {
	AllyNftMint solana.PublicKey
	Amount      uint64
}

// AllyWithdrawEvent is emitted when an ally withdraws unreserved funds.
type AllyWithdrawEvent struct {
	AllyNftMint solana.PublicKey
	Amount      uint64
}

func checkEvent(data []byte, disc [8]byte) (*bin.Decoder, error) {
	if len(data) < 8 {
		return nil, ErrTooShort
	}
	if !bytes.Equal(data[:8], disc[:]) {
		return nil, ErrWrongDiscriminator
	}
	return bin.NewBorshDecoder(data[8:]), nil
}

func ParseEvent_ConvertToPP(data []byte) (*ConvertToPPEvent, error) {
	dec, err := checkEvent(data, Event_ConvertToPP)
	if err != nil {
		return nil, err
	}
	ev := new(ConvertToPPEvent)
	if ev.User, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.AllyNftMint, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.AmountForca, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.MarginB, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.PpDelta, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.SolPriceUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.ForcaPerSolE6, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.PythPriceFeed, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.CanonicalPool, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.VerifyPrices, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	if ev.OracleToleranceBps, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if ev.PythExpoI32, err = dec.ReadInt32(bin.LE); err != nil {
		return nil, err
	}
	if ev.PythConfE8, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.PythPublishTs, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if ev.CurHwm, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.NewHwm, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.TaxHwm, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.BenefitMode, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	if ev.BenefitBps, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, err
	}
	if ev.DiscountForca, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ev.BonusPpE6, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	return ev, nil
}

func ParseEvent_ClaimRP(data []byte) (*ClaimRPEvent, error) {
	dec, err := checkEvent(data, Event_ClaimRP)
	if err != nil {
		return nil, err
	}
	ev := new(ClaimRPEvent)
	if ev.User, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if ev.AllyNftMint, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	for _, dst := range []*uint64{&ev.AmountForca, &ev.Net, &ev.FeeC, &ev.TaxD, &ev.CurHwm, &ev.NewHwm, &ev.TaxHwm} {
		if *dst, err = dec.ReadUint64(bin.LE); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

func parseUserAmountEvent(data []byte, disc [8]byte) (user, mint solana.PublicKey, amount uint64, err error) {
	dec, err := checkEvent(data, disc)
	if err != nil {
		return user, mint, 0, err
	}
	if user, err = readPublicKey(dec); err != nil {
		return user, mint, 0, err
	}
	if mint, err = readPublicKey(dec); err != nil {
		return user, mint, 0, err
	}
	amount, err = dec.ReadUint64(bin.LE)
	return user, mint, amount, err
}

func ParseEvent_AllocateRP(data []byte) (*AllocateRPEvent, error) {
	user, mint, amount, err := parseUserAmountEvent(data, Event_AllocateRP)
	if err != nil {
		return nil, err
	}
	return &AllocateRPEvent{User: user, AllyNftMint: mint, ForcaEquivAmount: amount}, nil
}

func ParseEvent_CancelRP(data []byte) (*CancelRPEvent, error) {
	user, mint, amount, err := parseUserAmountEvent(data, Event_CancelRP)
	if err != nil {
		return nil, err
	}
	return &CancelRPEvent{User: user, AllyNftMint: mint, CancelAmount: amount}, nil
}

func ParseEvent_ConsumePP(data []byte) (*ConsumePPEvent, error) {
	user, mint, amount, err := parseUserAmountEvent(data, Event_ConsumePP)
	if err != nil {
		return nil, err
	}
	return &ConsumePPEvent{User: user, AllyNftMint: mint, AmountPpE6: amount}, nil
}

func ParseEvent_GrantBonusPP(data []byte) (*GrantBonusPPEvent, error) {
	user, mint, amount, err := parseUserAmountEvent(data, Event_GrantBonusPP)
	if err != nil {
		return nil, err
	}
	return &GrantBonusPPEvent{User: user, AllyNftMint: mint, AmountPpE6: amount}, nil
}

func parseMintAmountEvent(data []byte, disc [8]byte) (mint solana.PublicKey, amount uint64, err error) {
	dec, err := checkEvent(data, disc)
	if err != nil {
		return mint, 0, err
	}
	if mint, err = readPublicKey(dec); err != nil {
		return mint, 0, err
	}
	amount, err = dec.ReadUint64(bin.LE)
	return mint, amount, err
}

func ParseEvent_AllyDeposit(data []byte) (*AllyDepositEvent, error) {
	mint, amount, err := parseMintAmountEvent(data, Event_AllyDeposit)
	if err != nil {
		return nil, err
	}
	return &AllyDepositEvent{AllyNftMint: mint, Amount: amount}, nil
}

func ParseEvent_AllyWithdraw(data []byte) (*AllyWithdrawEvent, error) {
	mint, amount, err := parseMintAmountEvent(data, Event_AllyWithdraw)
	if err != nil {
		return nil, err
	}
	return &AllyWithdrawEvent{AllyNftMint: mint, Amount: amount}, nil
}
