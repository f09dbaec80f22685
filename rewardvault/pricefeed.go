package reward_vault

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Account_PriceUpdateV2 tags price accounts written by the Pyth receiver program.
var Account_PriceUpdateV2 = anchorDiscriminator("account", "PriceUpdateV2")

// PriceData is a normalized oracle observation, independent of the on-chain layout.
type PriceData struct {
	FeedID      [32]byte
	Price       int64
	Conf        uint64
	Expo        int32
	PublishTime int64
}

// ConfBps is the confidence interval relative to the price, in basis points.
func (p *PriceData) ConfBps() (uint64, error) {
	price := p.Price
	if price < 0 {
		price = -price
	}
	if price == 0 {
		return 0, ErrInvalidPrice
	}
	return mulDiv64(p.Conf, 10_000, uint64(price))
}

// PriceE6 scales the raw price to the 1e6 fixed point used everywhere else.
func (p *PriceData) PriceE6() (uint64, error) {
	v, err := ScalePriceToE6(p.Price, p.Expo)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: price rounds to zero at expo %d", ErrInvalidPrice, p.Expo)
	}
	return v, nil
}

// ScalePriceToE6 converts a raw oracle price with exponent expo to a 1e6
// fixed point value. Division rounds toward zero. Negative prices fail.
func ScalePriceToE6(price int64, expo int32) (uint64, error) {
	if price < 0 {
		return 0, fmt.Errorf("%w: negative price %d", ErrInvalidPrice, price)
	}
	adj := int(expo) + 6
	if adj >= 0 {
		mul, ok := pow10u64(adj)
		if !ok {
			return 0, ErrMathOverflow
		}
		return mulDiv64(uint64(price), mul, 1)
	}
	div, ok := pow10u64(-adj)
	if !ok {
		// Divisor exceeds the u64 range, so the result underflows to zero.
		return 0, nil
	}
	return uint64(price) / div, nil
}

// PriceUpdateV2 layout offsets. After the discriminator and write authority
// comes a one byte verification level tag; tag 0 carries one extra byte (the
// partial verification count), tag 1 carries none.
const (
	priceUpdateV2TagOffset = 8 + 32
	priceUpdateV2BodyLen   = 32 + 8 + 8 + 4 + 8
)

// ParsePriceUpdateV2 decodes a Pyth receiver PriceUpdateV2 account.
func ParsePriceUpdateV2(data []byte) (*PriceData, error) {
	if len(data) < priceUpdateV2TagOffset+1 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrTooShort, len(data))
	}
	if !bytes.Equal(data[:8], Account_PriceUpdateV2[:]) {
		return nil, ErrWrongDiscriminator
	}
	offset := priceUpdateV2TagOffset
	switch data[offset] {
	case 0:
		// Partial verification: skip the num_signatures byte.
		offset += 2
	case 1:
		offset++
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedVerificationTag, data[offset])
	}
	if len(data) < offset+priceUpdateV2BodyLen {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(data), offset+priceUpdateV2BodyLen)
	}
	out := new(PriceData)
	copy(out.FeedID[:], data[offset:offset+32])
	offset += 32
	out.Price = int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	out.Conf = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	out.Expo = int32(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	out.PublishTime = int64(binary.LittleEndian.Uint64(data[offset:]))
	if out.Price == 0 {
		return nil, fmt.Errorf("%w: zero price", ErrInvalidPrice)
	}
	return out, nil
}

// Legacy Pyth price account layout (the pre-receiver oracle program).
const (
	legacyPriceMagic      = 0xa1b2c3d4
	legacyPriceMinLen     = 240
	legacyExpoOffset      = 20
	legacyTimestampOffset = 96
	legacyAggOffset       = 208
	legacyStatusTrading   = 1
)

// ParseLegacyPriceAccount decodes a legacy Pyth v2 price account. Only
// aggregates in trading status with a nonzero price are accepted.
func ParseLegacyPriceAccount(data []byte) (*PriceData, error) {
	if len(data) < legacyPriceMinLen {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(data), legacyPriceMinLen)
	}
	if binary.LittleEndian.Uint32(data[0:]) != legacyPriceMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadPriceAccount)
	}
	version := binary.LittleEndian.Uint32(data[4:])
	if version != 2 && version != 3 {
		return nil, fmt.Errorf("%w: version %d", ErrBadPriceAccount, version)
	}
	if atype := binary.LittleEndian.Uint32(data[8:]); atype != 3 {
		return nil, fmt.Errorf("%w: account type %d", ErrBadPriceAccount, atype)
	}
	price := int64(binary.LittleEndian.Uint64(data[legacyAggOffset:]))
	conf := binary.LittleEndian.Uint64(data[legacyAggOffset+8:])
	status := binary.LittleEndian.Uint32(data[legacyAggOffset+16:])
	if status != legacyStatusTrading || price == 0 {
		return nil, fmt.Errorf("%w: status %d price %d", ErrInvalidPrice, status, price)
	}
	return &PriceData{
		Price:       price,
		Conf:        conf,
		Expo:        int32(binary.LittleEndian.Uint32(data[legacyExpoOffset:])),
		PublishTime: int64(binary.LittleEndian.Uint64(data[legacyTimestampOffset:])),
	}, nil
}

// ParsePriceAccount decodes a price account of either supported layout. The
// receiver layout is authoritative whenever its discriminator is present;
// everything else falls through to the legacy parser.
func ParsePriceAccount(data []byte) (*PriceData, error) {
	if len(data) >= 8 && bytes.Equal(data[:8], Account_PriceUpdateV2[:]) {
		return ParsePriceUpdateV2(data)
	}
	return ParseLegacyPriceAccount(data)
}
