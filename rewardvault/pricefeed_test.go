package reward_vault

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalePriceToE6(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		expo  int32
		want  uint64
	}{
		{"pyth style negative expo", 500_000_000, -8, 5_000_000},
		{"expo exactly -6", 5_000_000, -6, 5_000_000},
		{"zero expo multiplies", 5, 0, 5_000_000},
		{"positive expo", 5, 2, 500_000_000},
		{"division floors toward zero", 199, -8, 1},
		{"deep negative expo underflows to zero", 123, -40, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScalePriceToE6(tt.price, tt.expo)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestScalePriceToE6RejectsNegative(t *testing.T) {
	_, err := ScalePriceToE6(-1, -8)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func buildPriceUpdateV2(t *testing.T, tag byte, price int64, conf uint64, expo int32, publishTime int64) []byte {
	t.Helper()
	data := make([]byte, 0, 128)
	data = append(data, Account_PriceUpdateV2[:]...)
	data = append(data, make([]byte, 32)...) // write authority
	data = append(data, tag)
	if tag == 0 {
		data = append(data, 3) // num_signatures padding byte
	}
	feedID := testKey(9)
	data = append(data, feedID[:]...)
	data = binary.LittleEndian.AppendUint64(data, uint64(price))
	data = binary.LittleEndian.AppendUint64(data, conf)
	data = binary.LittleEndian.AppendUint32(data, uint32(expo))
	data = binary.LittleEndian.AppendUint64(data, uint64(publishTime))
	return data
}

func TestParsePriceUpdateV2(t *testing.T) {
	for _, tag := range []byte{0, 1} {
		data := buildPriceUpdateV2(t, tag, 500_000_000, 250_000, -8, 1_730_000_000)
		pd, err := ParsePriceUpdateV2(data)
		require.NoError(t, err, "tag %d", tag)
		require.Equal(t, int64(500_000_000), pd.Price)
		require.Equal(t, uint64(250_000), pd.Conf)
		require.Equal(t, int32(-8), pd.Expo)
		require.Equal(t, int64(1_730_000_000), pd.PublishTime)
		require.Equal(t, [32]byte(testKey(9)), pd.FeedID)
	}
}

func TestParsePriceUpdateV2RejectsZeroPrice(t *testing.T) {
	data := buildPriceUpdateV2(t, 1, 0, 250_000, -8, 1_730_000_000)
	_, err := ParsePriceUpdateV2(data)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestParsePriceUpdateV2RejectsUnknownTag(t *testing.T) {
	data := buildPriceUpdateV2(t, 1, 1, 1, 0, 1)
	data[priceUpdateV2TagOffset] = 2
	_, err := ParsePriceUpdateV2(data)
	require.ErrorIs(t, err, ErrUnsupportedVerificationTag)
}

func TestParsePriceUpdateV2RejectsShort(t *testing.T) {
	data := buildPriceUpdateV2(t, 1, 1, 1, 0, 1)
	_, err := ParsePriceUpdateV2(data[:len(data)-1])
	require.ErrorIs(t, err, ErrTooShort)
}

func buildLegacyPriceAccount(t *testing.T, price int64, conf uint64, expo int32, ts int64, status uint32) []byte {
	t.Helper()
	data := make([]byte, legacyPriceMinLen)
	binary.LittleEndian.PutUint32(data[0:], legacyPriceMagic)
	binary.LittleEndian.PutUint32(data[4:], 2)
	binary.LittleEndian.PutUint32(data[8:], 3)
	binary.LittleEndian.PutUint32(data[legacyExpoOffset:], uint32(expo))
	binary.LittleEndian.PutUint64(data[legacyTimestampOffset:], uint64(ts))
	binary.LittleEndian.PutUint64(data[legacyAggOffset:], uint64(price))
	binary.LittleEndian.PutUint64(data[legacyAggOffset+8:], conf)
	binary.LittleEndian.PutUint32(data[legacyAggOffset+16:], status)
	return data
}

func TestParseLegacyPriceAccount(t *testing.T) {
	data := buildLegacyPriceAccount(t, 14_900_000_000, 5_000_000, -8, 1_730_000_000, legacyStatusTrading)
	pd, err := ParseLegacyPriceAccount(data)
	require.NoError(t, err)
	require.Equal(t, int64(14_900_000_000), pd.Price)
	require.Equal(t, uint64(5_000_000), pd.Conf)
	require.Equal(t, int32(-8), pd.Expo)
	require.Equal(t, int64(1_730_000_000), pd.PublishTime)
}

func TestParseLegacyPriceAccountRejections(t *testing.T) {
	good := buildLegacyPriceAccount(t, 100, 1, -8, 1, legacyStatusTrading)

	badMagic := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(badMagic[0:], 0xdeadbeef)
	_, err := ParseLegacyPriceAccount(badMagic)
	require.ErrorIs(t, err, ErrBadPriceAccount)

	badVersion := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(badVersion[4:], 9)
	_, err = ParseLegacyPriceAccount(badVersion)
	require.ErrorIs(t, err, ErrBadPriceAccount)

	notTrading := buildLegacyPriceAccount(t, 100, 1, -8, 1, 0)
	_, err = ParseLegacyPriceAccount(notTrading)
	require.ErrorIs(t, err, ErrInvalidPrice)

	zeroPrice := buildLegacyPriceAccount(t, 0, 1, -8, 1, legacyStatusTrading)
	_, err = ParseLegacyPriceAccount(zeroPrice)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = ParseLegacyPriceAccount(good[:legacyPriceMinLen-1])
	require.ErrorIs(t, err, ErrTooShort)
}

func TestParsePriceAccountDispatch(t *testing.T) {
	v2 := buildPriceUpdateV2(t, 1, 42, 1, -6, 1)
	pd, err := ParsePriceAccount(v2)
	require.NoError(t, err)
	require.Equal(t, int64(42), pd.Price)

	legacy := buildLegacyPriceAccount(t, 42, 1, -6, 1, legacyStatusTrading)
	pd, err = ParsePriceAccount(legacy)
	require.NoError(t, err)
	require.Equal(t, int64(42), pd.Price)

	_, err = ParsePriceAccount(make([]byte, legacyPriceMinLen))
	require.ErrorIs(t, err, ErrBadPriceAccount)
}

func TestConfBps(t *testing.T) {
	pd := &PriceData{Price: 10_000, Conf: 50}
	bps, err := pd.ConfBps()
	require.NoError(t, err)
	require.Equal(t, uint64(50), bps) // 50/10000 = 0.5% = 50 bps

	pd = &PriceData{Price: 0, Conf: 1}
	_, err = pd.ConfBps()
	require.ErrorIs(t, err, ErrInvalidPrice)
}
