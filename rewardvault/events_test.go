package reward_vault

import (
	"bytes"
	"encoding/base64"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

// buildEvent serializes an event payload the way the program's emit! does:
// the 8-byte discriminator followed by borsh fields.
func buildEvent(t *testing.T, disc [8]byte, write func(enc *bin.Encoder) error) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	require.NoError(t, enc.WriteBytes(disc[:], false))
	require.NoError(t, write(enc))
	return buf.Bytes()
}

func writeKey(enc *bin.Encoder, key solana.PublicKey) error {
	return enc.WriteBytes(key[:], false)
}

func claimEventBytes(t *testing.T, user, mint solana.PublicKey) []byte {
	t.Helper()
	return buildEvent(t, Event_ClaimRP, func(enc *bin.Encoder) error {
		if err := writeKey(enc, user); err != nil {
			return err
		}
		if err := writeKey(enc, mint); err != nil {
			return err
		}
		for _, v := range []uint64{1_000_000, 891_000, 10_000, 99_000, 0, 990_000, 0} {
			if err := enc.WriteUint64(v, bin.LE); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestParseEventClaimRP(t *testing.T) {
	user := testKey(0x11)
	mint := testKey(0x12)
	ev, err := ParseEvent_ClaimRP(claimEventBytes(t, user, mint))
	require.NoError(t, err)
	require.Equal(t, user, ev.User)
	require.Equal(t, mint, ev.AllyNftMint)
	require.Equal(t, uint64(1_000_000), ev.AmountForca)
	require.Equal(t, uint64(891_000), ev.Net)
	require.Equal(t, uint64(10_000), ev.FeeC)
	require.Equal(t, uint64(99_000), ev.TaxD)
	require.Equal(t, uint64(990_000), ev.NewHwm)
}

func TestParseEventConvertToPP(t *testing.T) {
	user := testKey(0x11)
	mint := testKey(0x12)
	feed := testKey(0x13)
	pool := testKey(0x14)
	data := buildEvent(t, Event_ConvertToPP, func(enc *bin.Encoder) error {
		if err := writeKey(enc, user); err != nil {
			return err
		}
		if err := writeKey(enc, mint); err != nil {
			return err
		}
		for _, v := range []uint64{2_000_000, 40_000, 148_500, 150_000_000, 2_000_000_000} {
			if err := enc.WriteUint64(v, bin.LE); err != nil {
				return err
			}
		}
		if err := writeKey(enc, feed); err != nil {
			return err
		}
		if err := writeKey(enc, pool); err != nil {
			return err
		}
		if err := enc.WriteBool(true); err != nil {
			return err
		}
		if err := enc.WriteUint16(50, bin.LE); err != nil {
			return err
		}
		if err := enc.WriteInt32(-8, bin.LE); err != nil {
			return err
		}
		if err := enc.WriteUint64(450_000, bin.LE); err != nil {
			return err
		}
		if err := enc.WriteInt64(quoteTestNow, bin.LE); err != nil {
			return err
		}
		for _, v := range []uint64{0, 2_000_000, 0} {
			if err := enc.WriteUint64(v, bin.LE); err != nil {
				return err
			}
		}
		if err := enc.WriteUint8(uint8(BenefitMode_BonusPP)); err != nil {
			return err
		}
		if err := enc.WriteUint16(300, bin.LE); err != nil {
			return err
		}
		for _, v := range []uint64{0, 4_455} {
			if err := enc.WriteUint64(v, bin.LE); err != nil {
				return err
			}
		}
		return nil
	})

	ev, err := ParseEvent_ConvertToPP(data)
	require.NoError(t, err)
	require.Equal(t, user, ev.User)
	require.Equal(t, mint, ev.AllyNftMint)
	require.Equal(t, uint64(2_000_000), ev.AmountForca)
	require.Equal(t, uint64(148_500), ev.PpDelta)
	require.Equal(t, uint64(150_000_000), ev.SolPriceUsdE6)
	require.Equal(t, feed, ev.PythPriceFeed)
	require.True(t, ev.VerifyPrices)
	require.Equal(t, int32(-8), ev.PythExpoI32)
	require.Equal(t, quoteTestNow, ev.PythPublishTs)
	require.Equal(t, uint8(BenefitMode_BonusPP), ev.BenefitMode)
	require.Equal(t, uint64(4_455), ev.BonusPpE6)
}

func TestParseEventRejectsWrongDiscriminator(t *testing.T) {
	data := claimEventBytes(t, testKey(1), testKey(2))
	_, err := ParseEvent_ConvertToPP(data)
	require.ErrorIs(t, err, ErrWrongDiscriminator)

	_, err = ParseEvent_ClaimRP(data[:4])
	require.ErrorIs(t, err, ErrTooShort)
}

func TestParseEventAllyDeposit(t *testing.T) {
	mint := testKey(0x12)
	data := buildEvent(t, Event_AllyDeposit, func(enc *bin.Encoder) error {
		if err := writeKey(enc, mint); err != nil {
			return err
		}
		return enc.WriteUint64(777, bin.LE)
	})
	ev, err := ParseEvent_AllyDeposit(data)
	require.NoError(t, err)
	require.Equal(t, mint, ev.AllyNftMint)
	require.Equal(t, uint64(777), ev.Amount)
}

func TestParseRewardEventsFromLogs(t *testing.T) {
	require.NoError(t, initializeIDL())

	user := testKey(0x11)
	mint := testKey(0x12)
	claim := base64.StdEncoding.EncodeToString(claimEventBytes(t, user, mint))
	consume := base64.StdEncoding.EncodeToString(buildEvent(t, Event_ConsumePP, func(enc *bin.Encoder) error {
		if err := writeKey(enc, user); err != nil {
			return err
		}
		if err := writeKey(enc, mint); err != nil {
			return err
		}
		return enc.WriteUint64(123_456, bin.LE)
	}))

	blockTime := solana.UnixTimeSeconds(quoteTestNow)
	tx := &rpc.GetTransactionResult{
		BlockTime: &blockTime,
		Meta: &rpc.TransactionMeta{
			LogMessages: []string{
				"Program eD97PpKEcqEWZtZJKttwc6RfDkowcybP4mJskPn1uqf invoke [1]",
				"Program data: " + claim,
				"Program log: not event data",
				"Program data: !!!not-base64!!!",
				"Program data: " + base64.StdEncoding.EncodeToString([]byte("short")),
				"Program data: " + consume,
				"Program eD97PpKEcqEWZtZJKttwc6RfDkowcybP4mJskPn1uqf success",
			},
		},
	}
	sig := solana.Signature{0xAA}

	events := parseRewardEvents(tx, sig)
	require.Len(t, events, 2)

	require.Equal(t, "ClaimRPEvent", events[0].Type)
	require.Equal(t, sig, events[0].Signature)
	require.Equal(t, user, events[0].User)
	require.Equal(t, mint, events[0].AllyNftMint)
	require.Equal(t, uint64(1_000_000), events[0].AmountForca)
	require.Equal(t, uint64(891_000), events[0].NetForca)
	require.Equal(t, quoteTestNow, events[0].Timestamp.Unix())

	require.Equal(t, "ConsumePPEvent", events[1].Type)
	require.Equal(t, uint64(123_456), events[1].AmountPpE6)

	require.Empty(t, parseRewardEvents(nil, sig))
}

func TestProgramErrorMessage(t *testing.T) {
	require.Equal(t, "Operation paused", ProgramErrorMessage(6000))
	require.Equal(t, "", ProgramErrorMessage(1))
}
