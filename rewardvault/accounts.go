package reward_vault

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Account discriminators, sha256("account:<Name>")[..8].
var (
	Account_VaultState       = anchorDiscriminator("account", "VaultState")
	Account_AllyAccount      = anchorDiscriminator("account", "AllyAccount")
	Account_UserLedger       = anchorDiscriminator("account", "UserLedger")
	Account_PopProfile       = anchorDiscriminator("account", "PopProfile")
	Account_ClaimGuard       = anchorDiscriminator("account", "ClaimGuard")
	Account_MockOracleSolUsd = anchorDiscriminator("account", "MockOracleSolUsd")
	Account_MockPoolForcaSol = anchorDiscriminator("account", "MockPoolForcaSol")
)

// Serialized payload sizes, excluding the 8-byte discriminator.
const (
	VaultStateLen       = 271
	AllyAccountLen      = 207
	UserLedgerLen       = 121
	PopProfileLen       = 42
	ClaimGuardLen       = 99
	MockOracleSolUsdLen = 28
	MockPoolForcaSolLen = 24
)

// PopLevel is the proof-of-personhood tier recorded on a PopProfile.
type PopLevel uint8

const (
	PopLevel_Suspicious PopLevel = iota
	PopLevel_Soft
	PopLevel_Strong
)

func (l PopLevel) String() string {
	switch l {
	case PopLevel_Suspicious:
		return "Suspicious"
	case PopLevel_Soft:
		return "Soft"
	case PopLevel_Strong:
		return "Strong"
	default:
		return fmt.Sprintf("PopLevel(%d)", uint8(l))
	}
}

// AllyRole classifies the ally partnership.
type AllyRole uint8

const (
	AllyRole_Marketing AllyRole = iota
	AllyRole_Dev
	AllyRole_Other
)

func (r AllyRole) String() string {
	switch r {
	case AllyRole_Marketing:
		return "Marketing"
	case AllyRole_Dev:
		return "Dev"
	case AllyRole_Other:
		return "Other"
	default:
		return fmt.Sprintf("AllyRole(%d)", uint8(r))
	}
}

// BenefitMode selects how an ally's benefit bps apply to conversions.
type BenefitMode uint8

const (
	BenefitMode_None BenefitMode = iota
	BenefitMode_Discount
	BenefitMode_BonusPP
)

func (m BenefitMode) String() string {
	switch m {
	case BenefitMode_None:
		return "None"
	case BenefitMode_Discount:
		return "Discount"
	case BenefitMode_BonusPP:
		return "BonusPP"
	default:
		return fmt.Sprintf("BenefitMode(%d)", uint8(m))
	}
}

// VaultState is the singleton program configuration.
type VaultState struct {
	PopAdmin                  solana.PublicKey
	EconAdmin                 solana.PublicKey
	ForcaMint                 solana.PublicKey
	FeeCBps                   uint16
	TaxDBps                   uint16
	MarginBBps                uint16
	Paused                    bool
	VaultSignerBump           uint8
	SoftDailyCapUsdE6         uint64
	SoftCooldownSecs          uint64
	ForcaUsdE6                uint64
	VerifyPrices              bool
	OracleToleranceBps        uint16
	PythSolUsdPriceFeed       solana.PublicKey
	CanonicalPoolForcaSol     solana.PublicKey
	CanonicalPoolForcaReserve solana.PublicKey
	CanonicalPoolSolReserve   solana.PublicKey
	UseMockOracle             bool
	MockOracleLocked          bool
	PythMaxStaleSecs          uint64
	PythMaxConfidenceBps      uint16
}

// AllyAccount is the per-ally configuration and treasury bookkeeping record.
type AllyAccount struct {
	NftMint               solana.PublicKey
	OpsAuthority          solana.PublicKey
	WithdrawAuthority     solana.PublicKey
	TreasuryAta           solana.PublicKey
	VaultAta              solana.PublicKey
	Role                  AllyRole
	BalanceForca          uint64
	RpReserved            uint64
	BenefitMode           BenefitMode
	BenefitBps            uint16
	PopEnforced           bool
	SoftDailyCapUsdE6     uint64
	SoftCooldownSecs      uint64
	MonthlyClaimLimit     uint16
	HardKycThresholdUsdE6 uint64
}

// UserLedger tracks a user's reward balances under one ally.
type UserLedger struct {
	User              solana.PublicKey
	AllyNftMint       solana.PublicKey
	RpClaimableForca  uint64
	PpBalance         uint64
	HwmClaimed        uint64
	TaxHwm            uint64
	TotalClaimedForca uint64
	Bump              uint8
	CreatedTs         int64
	UpdatedTs         int64
}

// PopProfile records a user's proof-of-personhood tier.
type PopProfile struct {
	User      solana.PublicKey
	Level     PopLevel
	Bump      uint8
	LastSetTs int64
}

// ClaimGuard is the rolling daily and monthly claim quota for a user under an ally.
type ClaimGuard struct {
	User        solana.PublicKey
	AllyNftMint solana.PublicKey
	Day         int64
	UsedUsdE6   uint64
	LastClaimTs int64
	MonthIndex  int64
	MonthClaims uint16
	Bump        uint8
}

// MockOracleSolUsd is the devnet stand-in for the SOL/USD oracle.
type MockOracleSolUsd struct {
	SolUsdE6  uint64
	ExpoI32   int32
	ConfE8    uint64
	PublishTs int64
}

// MockPoolForcaSol is the devnet stand-in for the canonical FORCA/SOL pool.
type MockPoolForcaSol struct {
	ForcaPerSolE6  uint64
	ReserveForcaE6 uint64
	ReserveSolE9   uint64
}

// checkAccount verifies the buffer covers the discriminator plus the record
// payload and returns a decoder positioned after the discriminator. The
// discriminator itself is skipped, not validated; the caller picked the
// record type by which address it read.
func checkAccount(data []byte, payloadLen int) (*bin.Decoder, error) {
	if len(data) < 8+payloadLen {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(data), 8+payloadLen)
	}
	return bin.NewBorshDecoder(data[8:]), nil
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	var pk solana.PublicKey
	b, err := dec.ReadNBytes(32)
	if err != nil {
		return pk, err
	}
	copy(pk[:], b)
	return pk, nil
}

func ParseAccount_VaultState(data []byte) (*VaultState, error) {
	dec, err := checkAccount(data, VaultStateLen)
	if err != nil {
		return nil, err
	}
	out := new(VaultState)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *VaultState) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if s.PopAdmin, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.EconAdmin, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.ForcaMint, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.FeeCBps, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if s.TaxDBps, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if s.MarginBBps, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if s.Paused, err = dec.ReadBool(); err != nil {
		return err
	}
	if s.VaultSignerBump, err = dec.ReadUint8(); err != nil {
		return err
	}
	if s.SoftDailyCapUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if s.SoftCooldownSecs, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if s.ForcaUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if s.VerifyPrices, err = dec.ReadBool(); err != nil {
		return err
	}
	if s.OracleToleranceBps, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if s.PythSolUsdPriceFeed, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.CanonicalPoolForcaSol, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.CanonicalPoolForcaReserve, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.CanonicalPoolSolReserve, err = readPublicKey(dec); err != nil {
		return err
	}
	if s.UseMockOracle, err = dec.ReadBool(); err != nil {
		return err
	}
	if s.MockOracleLocked, err = dec.ReadBool(); err != nil {
		return err
	}
	if s.PythMaxStaleSecs, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if s.PythMaxConfidenceBps, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	return nil
}

func (s *VaultState) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_VaultState[:], false); err != nil {
		return err
	}
	for _, pk := range []solana.PublicKey{s.PopAdmin, s.EconAdmin, s.ForcaMint} {
		if err := enc.WriteBytes(pk.Bytes(), false); err != nil {
			return err
		}
	}
	if err := enc.WriteUint16(s.FeeCBps, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint16(s.TaxDBps, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint16(s.MarginBBps, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteBool(s.Paused); err != nil {
		return err
	}
	if err := enc.WriteUint8(s.VaultSignerBump); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.SoftDailyCapUsdE6, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.SoftCooldownSecs, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.ForcaUsdE6, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteBool(s.VerifyPrices); err != nil {
		return err
	}
	if err := enc.WriteUint16(s.OracleToleranceBps, bin.LE); err != nil {
		return err
	}
	for _, pk := range []solana.PublicKey{s.PythSolUsdPriceFeed, s.CanonicalPoolForcaSol, s.CanonicalPoolForcaReserve, s.CanonicalPoolSolReserve} {
		if err := enc.WriteBytes(pk.Bytes(), false); err != nil {
			return err
		}
	}
	if err := enc.WriteBool(s.UseMockOracle); err != nil {
		return err
	}
	if err := enc.WriteBool(s.MockOracleLocked); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.PythMaxStaleSecs, bin.LE); err != nil {
		return err
	}
	return enc.WriteUint16(s.PythMaxConfidenceBps, bin.LE)
}

func ParseAccount_AllyAccount(data []byte) (*AllyAccount, error) {
	dec, err := checkAccount(data, AllyAccountLen)
	if err != nil {
		return nil, err
	}
	out := new(AllyAccount)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AllyAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if a.NftMint, err = readPublicKey(dec); err != nil {
		return err
	}
	if a.OpsAuthority, err = readPublicKey(dec); err != nil {
		return err
	}
	if a.WithdrawAuthority, err = readPublicKey(dec); err != nil {
		return err
	}
	if a.TreasuryAta, err = readPublicKey(dec); err != nil {
		return err
	}
	if a.VaultAta, err = readPublicKey(dec); err != nil {
		return err
	}
	role, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	a.Role = AllyRole(role)
	if a.BalanceForca, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if a.RpReserved, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	mode, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	a.BenefitMode = BenefitMode(mode)
	if a.BenefitBps, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if a.PopEnforced, err = dec.ReadBool(); err != nil {
		return err
	}
	if a.SoftDailyCapUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if a.SoftCooldownSecs, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if a.MonthlyClaimLimit, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if a.HardKycThresholdUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	return nil
}

func (a *AllyAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_AllyAccount[:], false); err != nil {
		return err
	}
	for _, pk := range []solana.PublicKey{a.NftMint, a.OpsAuthority, a.WithdrawAuthority, a.TreasuryAta, a.VaultAta} {
		if err := enc.WriteBytes(pk.Bytes(), false); err != nil {
			return err
		}
	}
	if err := enc.WriteUint8(uint8(a.Role)); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.BalanceForca, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.RpReserved, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(a.BenefitMode)); err != nil {
		return err
	}
	if err := enc.WriteUint16(a.BenefitBps, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteBool(a.PopEnforced); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.SoftDailyCapUsdE6, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.SoftCooldownSecs, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint16(a.MonthlyClaimLimit, bin.LE); err != nil {
		return err
	}
	return enc.WriteUint64(a.HardKycThresholdUsdE6, bin.LE)
}

func ParseAccount_UserLedger(data []byte) (*UserLedger, error) {
	dec, err := checkAccount(data, UserLedgerLen)
	if err != nil {
		return nil, err
	}
	out := new(UserLedger)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *UserLedger) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if l.User, err = readPublicKey(dec); err != nil {
		return err
	}
	if l.AllyNftMint, err = readPublicKey(dec); err != nil {
		return err
	}
	if l.RpClaimableForca, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if l.PpBalance, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if l.HwmClaimed, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if l.TaxHwm, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if l.TotalClaimedForca, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if l.Bump, err = dec.ReadUint8(); err != nil {
		return err
	}
	if l.CreatedTs, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	if l.UpdatedTs, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	return nil
}

func (l *UserLedger) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_UserLedger[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(l.User.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteBytes(l.AllyNftMint.Bytes(), false); err != nil {
		return err
	}
	for _, v := range []uint64{l.RpClaimableForca, l.PpBalance, l.HwmClaimed, l.TaxHwm, l.TotalClaimedForca} {
		if err := enc.WriteUint64(v, bin.LE); err != nil {
			return err
		}
	}
	if err := enc.WriteUint8(l.Bump); err != nil {
		return err
	}
	if err := enc.WriteInt64(l.CreatedTs, bin.LE); err != nil {
		return err
	}
	return enc.WriteInt64(l.UpdatedTs, bin.LE)
}

func ParseAccount_PopProfile(data []byte) (*PopProfile, error) {
	dec, err := checkAccount(data, PopProfileLen)
	if err != nil {
		return nil, err
	}
	out := new(PopProfile)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PopProfile) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if p.User, err = readPublicKey(dec); err != nil {
		return err
	}
	level, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	p.Level = PopLevel(level)
	if p.Bump, err = dec.ReadUint8(); err != nil {
		return err
	}
	if p.LastSetTs, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	return nil
}

func (p *PopProfile) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_PopProfile[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(p.User.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(p.Level)); err != nil {
		return err
	}
	if err := enc.WriteUint8(p.Bump); err != nil {
		return err
	}
	return enc.WriteInt64(p.LastSetTs, bin.LE)
}

func ParseAccount_ClaimGuard(data []byte) (*ClaimGuard, error) {
	dec, err := checkAccount(data, ClaimGuardLen)
	if err != nil {
		return nil, err
	}
	out := new(ClaimGuard)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *ClaimGuard) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if g.User, err = readPublicKey(dec); err != nil {
		return err
	}
	if g.AllyNftMint, err = readPublicKey(dec); err != nil {
		return err
	}
	if g.Day, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	if g.UsedUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if g.LastClaimTs, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	if g.MonthIndex, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	if g.MonthClaims, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if g.Bump, err = dec.ReadUint8(); err != nil {
		return err
	}
	return nil
}

func (g *ClaimGuard) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_ClaimGuard[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(g.User.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteBytes(g.AllyNftMint.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteInt64(g.Day, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(g.UsedUsdE6, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteInt64(g.LastClaimTs, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteInt64(g.MonthIndex, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint16(g.MonthClaims, bin.LE); err != nil {
		return err
	}
	return enc.WriteUint8(g.Bump)
}

func ParseAccount_MockOracleSolUsd(data []byte) (*MockOracleSolUsd, error) {
	dec, err := checkAccount(data, MockOracleSolUsdLen)
	if err != nil {
		return nil, err
	}
	out := new(MockOracleSolUsd)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *MockOracleSolUsd) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if o.SolUsdE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if o.ExpoI32, err = dec.ReadInt32(bin.LE); err != nil {
		return err
	}
	if o.ConfE8, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if o.PublishTs, err = dec.ReadInt64(bin.LE); err != nil {
		return err
	}
	return nil
}

func (o *MockOracleSolUsd) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_MockOracleSolUsd[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint64(o.SolUsdE6, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteInt32(o.ExpoI32, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(o.ConfE8, bin.LE); err != nil {
		return err
	}
	return enc.WriteInt64(o.PublishTs, bin.LE)
}

func ParseAccount_MockPoolForcaSol(data []byte) (*MockPoolForcaSol, error) {
	dec, err := checkAccount(data, MockPoolForcaSolLen)
	if err != nil {
		return nil, err
	}
	out := new(MockPoolForcaSol)
	if err := out.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *MockPoolForcaSol) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if p.ForcaPerSolE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.ReserveForcaE6, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if p.ReserveSolE9, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	return nil
}

func (p *MockPoolForcaSol) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(Account_MockPoolForcaSol[:], false); err != nil {
		return err
	}
	for _, v := range []uint64{p.ForcaPerSolE6, p.ReserveForcaE6, p.ReserveSolE9} {
		if err := enc.WriteUint64(v, bin.LE); err != nil {
			return err
		}
	}
	return nil
}

// splTokenAccountMinLen covers mint, owner and amount; the remaining SPL
// token fields are not needed here.
const splTokenAccountMinLen = 72

// TokenAccountBalance is the slice of an SPL token account the pool math reads.
type TokenAccountBalance struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// ParseTokenAccountBalance reads mint, owner and amount from raw SPL token
// account data.
func ParseTokenAccountBalance(data []byte) (*TokenAccountBalance, error) {
	if len(data) < splTokenAccountMinLen {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(data), splTokenAccountMinLen)
	}
	dec := bin.NewBorshDecoder(data)
	out := new(TokenAccountBalance)
	var err error
	if out.Mint, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if out.Owner, err = readPublicKey(dec); err != nil {
		return nil, err
	}
	if out.Amount, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	return out, nil
}
