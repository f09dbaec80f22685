package reward_vault

import (
	"fmt"
	"time"
)

const secondsPerDay = 86_400

// DayIndex is the UTC day number for a unix timestamp, floored for negative
// timestamps so pre-epoch instants still map to the correct day.
func DayIndex(ts int64) int64 {
	d := ts / secondsPerDay
	if ts%secondsPerDay < 0 {
		d--
	}
	return d
}

// MonthIndex maps a unix timestamp to a linear month counter, year*12 plus
// the zero-based month, valid across the whole proleptic Gregorian range.
func MonthIndex(ts int64) int64 {
	year, month := civilFromDays(DayIndex(ts))
	return year*12 + month - 1
}

// civilFromDays converts a day count since 1970-01-01 to a civil year and
// month (1..12) using Howard Hinnant's days-from-civil inverse.
func civilFromDays(days int64) (year, month int64) {
	z := days + 719_468
	var era int64
	if z >= 0 {
		era = z / 146_097
	} else {
		era = (z - 146_096) / 146_097
	}
	doe := z - era*146_097
	yoe := (doe - doe/1_460 + doe/36_524 - doe/146_096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	if mp < 10 {
		month = mp + 3
	} else {
		month = mp - 9
	}
	if month <= 2 {
		y++
	}
	return y, month
}

// GuardStatus is the client-side reconstruction of a ClaimGuard at an
// instant, with the rolling windows already advanced to that instant.
type GuardStatus struct {
	DayIndex       int64
	UsedUsdE6Today uint64
	RemainingUsdE6 uint64
	// RemainingForca converts the remaining USD allowance back to FORCA at
	// the supplied price; zero when no price is available.
	RemainingForca uint64

	MonthIndex      int64
	MonthClaimsUsed uint16
	// MonthLimited reports whether the ally caps claims per month at all.
	MonthLimited         bool
	MonthClaimsRemaining uint16

	CooldownRemainingSecs uint64
}

// ComputeGuardStatus advances a guard record's rolling windows to now and
// reports the remaining allowances under the ally's limits. A nil guard
// means the user has never claimed, so both windows are untouched.
// forcaUsdE6 is the FORCA/USD price used to express the USD allowance in
// FORCA; pass zero when no price is available.
func ComputeGuardStatus(guard *ClaimGuard, ally *AllyAccount, forcaUsdE6 uint64, now time.Time) GuardStatus {
	ts := now.Unix()
	status := GuardStatus{
		DayIndex:   DayIndex(ts),
		MonthIndex: MonthIndex(ts),
	}

	if guard != nil {
		// Usage carries over only within the same window.
		if guard.Day == status.DayIndex {
			status.UsedUsdE6Today = guard.UsedUsdE6
		}
		if guard.MonthIndex == status.MonthIndex {
			status.MonthClaimsUsed = guard.MonthClaims
		}
		if ally.SoftCooldownSecs > 0 && guard.LastClaimTs > 0 {
			since := ts - guard.LastClaimTs
			if since >= 0 && uint64(since) < ally.SoftCooldownSecs {
				status.CooldownRemainingSecs = ally.SoftCooldownSecs - uint64(since)
			}
		}
	}

	if ally.SoftDailyCapUsdE6 > status.UsedUsdE6Today {
		status.RemainingUsdE6 = ally.SoftDailyCapUsdE6 - status.UsedUsdE6Today
	}
	if forcaUsdE6 > 0 {
		forca, err := mulDiv64(status.RemainingUsdE6, forcaScaleE6, forcaUsdE6)
		if err == nil {
			status.RemainingForca = forca
		}
	}

	if ally.MonthlyClaimLimit > 0 {
		status.MonthLimited = true
		if ally.MonthlyClaimLimit > status.MonthClaimsUsed {
			status.MonthClaimsRemaining = ally.MonthlyClaimLimit - status.MonthClaimsUsed
		}
	}
	return status
}

// EffectiveClaimable is the FORCA amount a user could actually claim right
// now: the ledger balance clamped by the daily allowance, unless the ally
// does not enforce PoP or the user's tier is Strong, which bypasses the
// soft guards entirely.
func EffectiveClaimable(ledger *UserLedger, profile *PopProfile, ally *AllyAccount, status GuardStatus) uint64 {
	if ledger == nil {
		return 0
	}
	claimable := ledger.RpClaimableForca

	level := PopLevel_Suspicious
	if profile != nil {
		level = profile.Level
	}
	if !ally.PopEnforced || level == PopLevel_Strong {
		return claimable
	}
	if status.RemainingForca < claimable {
		return status.RemainingForca
	}
	return claimable
}

// ClaimFees is the fee breakdown for a claim of a given gross amount.
type ClaimFees struct {
	AmountForca uint64
	// FeeC is the flat claim fee taken off the top.
	FeeC uint64
	// TaxD applies only to the portion of the claim basis above the ledger's
	// tax high-water mark.
	TaxD uint64
	// NetForca is what reaches the user's token account.
	NetForca uint64
}

// PreviewClaimFees reproduces the program's fee math for a claim: a flat
// basis point fee, then a tax on the excess of the new high-water mark over
// the taxed high-water mark.
func PreviewClaimFees(state *VaultState, ledger *UserLedger, amountForca uint64) (*ClaimFees, error) {
	if amountForca == 0 {
		return nil, ErrZeroAmount
	}
	feeC, err := bpsOf(amountForca, state.FeeCBps)
	if err != nil {
		return nil, err
	}
	if feeC > amountForca {
		return nil, fmt.Errorf("%w: fee %d on amount %d", ErrMathOverflow, feeC, amountForca)
	}
	basis := amountForca - feeC

	var hwm, taxHwm uint64
	if ledger != nil {
		hwm, taxHwm = ledger.HwmClaimed, ledger.TaxHwm
	}
	newHwm := hwm + basis
	var excess uint64
	if newHwm > taxHwm {
		excess = newHwm - taxHwm
	}
	taxD, err := bpsOf(excess, state.TaxDBps)
	if err != nil {
		return nil, err
	}
	if feeC+taxD >= amountForca {
		return nil, fmt.Errorf("%w: fees %d on amount %d", ErrAmountTooSmall, feeC+taxD, amountForca)
	}
	return &ClaimFees{
		AmountForca: amountForca,
		FeeC:        feeC,
		TaxD:        taxD,
		NetForca:    basis - taxD,
	}, nil
}
