package reward_vault

import (
	"encoding/json"
	"fmt"
)

// Trimmed program IDL: the events the history scanner decodes plus the full
// program error table. Instruction and account shapes live in Go code.

type IDL struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Events  []IDLEvent `json:"events"`
	Errors  []IDLError `json:"errors"`
}

// Discriminator is a number array in IDL JSON, not base64.
type IDLEvent struct {
	Name          string     `json:"name"`
	Discriminator []int      `json:"discriminator"`
	Fields        []IDLField `json:"fields"`
}

type IDLField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type IDLError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

func ParseIDL(idlBytes []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(idlBytes, &idl); err != nil {
		return nil, fmt.Errorf("error unmarshalling IDL JSON: %w", err)
	}
	return &idl, nil
}

// ErrorMessage maps a program error code to its message, or "" when unknown.
func (idl *IDL) ErrorMessage(code int) string {
	for _, e := range idl.Errors {
		if e.Code == code {
			return e.Msg
		}
	}
	return ""
}

const idlJSON = `{
  "version": "0.1.0",
  "name": "reward_vault",
  "address": "eD97PpKEcqEWZtZJKttwc6RfDkowcybP4mJskPn1uqf",
  "events": [
    {"name": "ConvertToPPEvent", "discriminator": [50, 9, 22, 99, 146, 116, 137, 131]},
    {"name": "ClaimRPEvent", "discriminator": [152, 194, 145, 93, 155, 224, 83, 217]},
    {"name": "AllocateRPEvent", "discriminator": [191, 136, 245, 230, 22, 184, 198, 164]},
    {"name": "CancelRPEvent", "discriminator": [68, 44, 161, 5, 49, 217, 249, 177]},
    {"name": "ConsumePPEvent", "discriminator": [174, 52, 227, 69, 51, 254, 36, 235]},
    {"name": "GrantBonusPPEvent", "discriminator": [34, 125, 162, 251, 187, 147, 98, 148]},
    {"name": "AllyDepositEvent", "discriminator": [245, 224, 20, 169, 18, 4, 69, 109]},
    {"name": "AllyWithdrawEvent", "discriminator": [31, 92, 86, 168, 117, 96, 228, 80]}
  ],
  "errors": [
    {"code": 6000, "name": "Paused", "msg": "Operation paused"},
    {"code": 6001, "name": "Overflow", "msg": "Overflow"},
    {"code": 6002, "name": "InvalidBps", "msg": "Invalid bps"},
    {"code": 6003, "name": "InvalidForcaDecimals", "msg": "Invalid FORCA decimals (must be 6)"},
    {"code": 6004, "name": "InvalidMint", "msg": "Invalid token mint"},
    {"code": 6005, "name": "InsufficientAllyBalance", "msg": "Insufficient ally balance"},
    {"code": 6006, "name": "InsufficientVaultBalance", "msg": "Insufficient vault balance"},
    {"code": 6007, "name": "InsufficientUnreservedBalance", "msg": "Insufficient unreserved balance"},
    {"code": 6008, "name": "InsufficientReservedBalance", "msg": "Insufficient reserved balance"},
    {"code": 6009, "name": "ZeroAmount", "msg": "Zero amount not allowed"},
    {"code": 6010, "name": "InvalidQuote", "msg": "Invalid quote values"},
    {"code": 6011, "name": "InsufficientRP", "msg": "Insufficient RP allowance"},
    {"code": 6012, "name": "InsufficientPP", "msg": "Insufficient PP balance"},
    {"code": 6013, "name": "AmountTooSmallAfterFee", "msg": "Amount too small after fees"},
    {"code": 6014, "name": "InvalidTreasury", "msg": "Invalid treasury token account"},
    {"code": 6015, "name": "InvalidVaultAta", "msg": "Invalid vault token account"},
    {"code": 6016, "name": "PopDenied", "msg": "POP level denies RP allocation"},
    {"code": 6017, "name": "SoftDailyCapExceeded", "msg": "Soft POP daily cap exceeded"},
    {"code": 6018, "name": "CooldownNotElapsed", "msg": "Cooldown not elapsed"},
    {"code": 6019, "name": "PopCapTooLow", "msg": "Soft POP daily cap too low"},
    {"code": 6020, "name": "PopCooldownTooHigh", "msg": "Soft POP cooldown too high"},
    {"code": 6021, "name": "InvalidAuthority", "msg": "Invalid authority"},
    {"code": 6022, "name": "OracleMissing", "msg": "Oracle proof accounts missing"},
    {"code": 6023, "name": "OracleOutOfTolerance", "msg": "Oracle values out of tolerance"},
    {"code": 6024, "name": "OracleKeyMismatch", "msg": "Oracle key mismatch"},
    {"code": 6025, "name": "OracleParseFailed", "msg": "Oracle parsing failed"},
    {"code": 6026, "name": "OracleStale", "msg": "Oracle price is stale"},
    {"code": 6027, "name": "InvalidBenefitMode", "msg": "Invalid benefit mode value"},
    {"code": 6028, "name": "VerifyPricesLocked", "msg": "verify_prices cannot be disabled once enabled"},
    {"code": 6029, "name": "InvalidPauseReason", "msg": "Invalid pause reason code"},
    {"code": 6030, "name": "ManualForcaUsdDisabled", "msg": "Manual FORCA/USD is only allowed when use_mock_oracle=true"},
    {"code": 6031, "name": "MockOracleLocked", "msg": "use_mock_oracle cannot be re-enabled once disabled"},
    {"code": 6032, "name": "MonthlyClaimLimitExceeded", "msg": "Monthly claim limit exceeded"},
    {"code": 6033, "name": "KycRequired", "msg": "KYC required for claim"},
    {"code": 6034, "name": "PopMonthlyLimitTooLow", "msg": "Monthly claim limit too low"},
    {"code": 6035, "name": "PopMonthlyLimitTooHigh", "msg": "Monthly claim limit too high"},
    {"code": 6036, "name": "PopHardCutTooLow", "msg": "KYC threshold too low"},
    {"code": 6037, "name": "OracleConfidenceTooWide", "msg": "Oracle confidence interval too wide"}
  ]
}`
