package reward_vault

import "errors"

// Decode failures.
var (
	// ErrTooShort is returned when account data is shorter than the layout requires.
	ErrTooShort = errors.New("account data too short")

	// ErrWrongDiscriminator is returned when an event or price update tag
	// does not match the expected kind.
	ErrWrongDiscriminator = errors.New("account discriminator mismatch")

	// ErrUnsupportedVerificationTag is returned for a PriceUpdateV2 whose
	// verification level tag is neither 0 nor 1.
	ErrUnsupportedVerificationTag = errors.New("unsupported price verification tag")

	// ErrBadPriceAccount is returned when bytes match neither a PriceUpdateV2
	// nor a legacy price account (wrong magic, version, or account type).
	ErrBadPriceAccount = errors.New("unrecognized price account layout")

	// ErrInvalidPrice is returned for a parseable price account whose reported
	// price is unusable (zero, non-trading status, or negative after scaling).
	ErrInvalidPrice = errors.New("invalid oracle price")
)

// Quote failures.
var (
	// ErrMockAccountsUnavailable is returned when mock pricing is selected but
	// the mock oracle or mock pool account does not exist.
	ErrMockAccountsUnavailable = errors.New("mock oracle accounts unavailable")

	// ErrEmptyReserve is returned when the canonical pool SOL reserve is zero.
	ErrEmptyReserve = errors.New("pool sol reserve is empty")

	// ErrZeroDerivedRate is returned when the derived FORCA per SOL rate is zero.
	ErrZeroDerivedRate = errors.New("derived forca per sol rate is zero")

	// ErrStalePrice is returned when the oracle publish time is outside the
	// allowed staleness window (or lies in the future).
	ErrStalePrice = errors.New("oracle price is stale")

	// ErrConfidenceTooWide is returned when the oracle confidence interval
	// exceeds the configured basis point ceiling.
	ErrConfidenceTooWide = errors.New("oracle confidence interval too wide")
)

// Arithmetic failures.
var (
	// ErrMathOverflow is returned when a fixed point computation does not fit
	// in 64 bits.
	ErrMathOverflow = errors.New("arithmetic overflow")

	// ErrAmountTooSmall is returned when a claim amount does not cover its fees.
	ErrAmountTooSmall = errors.New("amount does not cover fees")
)
