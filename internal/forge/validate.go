package forge

import (
	"fmt"
	"math/big"
	"strings"
)

// Field names the validated wizard form fields.
type Field string

const (
	FieldName     Field = "name"
	FieldSymbol   Field = "symbol"
	FieldDecimals Field = "decimals"
	FieldSupply   Field = "supply"
)

// Validation limits for the token form.
const (
	MaxNameLen   = 32
	MinSymbolLen = 2
	MaxSymbolLen = 11
	MaxDecimals  = 18

	// supplyWarnExp: supplies above 10^supplyWarnExp whole tokens are legal
	// but almost certainly a typo, so ValidateSupply flags them with a
	// warning instead of rejecting them.
	supplyWarnExp = 18
)

// DecimalPresets are the decimal choices offered by the wizard UI. Any value
// in [0, MaxDecimals] validates; these are just the common ones.
var DecimalPresets = []uint8{0, 6, 8, 18}

// FieldValidity is the result of validating a single form field. A field can
// be valid and still carry a message (a soft warning, e.g. a huge supply).
type FieldValidity struct {
	Valid   bool
	Message string
}

func valid() FieldValidity { return FieldValidity{Valid: true} }

func invalid(msg string) FieldValidity { return FieldValidity{Valid: false, Message: msg} }

func validWarn(msg string) FieldValidity { return FieldValidity{Valid: true, Message: msg} }

// ValidateName checks a token name: non-empty, at most MaxNameLen characters.
func ValidateName(name string) FieldValidity {
	if strings.TrimSpace(name) == "" {
		return invalid("name is required")
	}
	if len(name) > MaxNameLen {
		return invalid(fmt.Sprintf("name must be at most %d characters", MaxNameLen))
	}
	return valid()
}

// ValidateSymbol checks a token symbol: 2–11 alphanumeric characters.
// Callers conventionally upper-case the symbol before validating; case is
// not itself a validity rule.
func ValidateSymbol(symbol string) FieldValidity {
	if symbol == "" {
		return invalid("symbol is required")
	}
	if len(symbol) < MinSymbolLen || len(symbol) > MaxSymbolLen {
		return invalid(fmt.Sprintf("symbol must be %d–%d characters", MinSymbolLen, MaxSymbolLen))
	}
	for _, r := range symbol {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			return invalid("symbol may only contain letters and digits")
		}
	}
	return valid()
}

// ValidateDecimals checks the decimal places: any integer in [0, MaxDecimals].
func ValidateDecimals(decimals int) FieldValidity {
	if decimals < 0 || decimals > MaxDecimals {
		return invalid(fmt.Sprintf("decimals must be between 0 and %d", MaxDecimals))
	}
	return valid()
}

// ValidateSupply checks the initial supply: a positive decimal string.
// Zero, negative, or unparsable input is invalid. Supplies above
// 10^supplyWarnExp whole tokens, or whose scaled value (supply × 10^decimals)
// would not fit in a uint256, validate with a warning message so the UI can
// flag them while still allowing navigation.
func ValidateSupply(supply string, decimals int) FieldValidity {
	supply = strings.TrimSpace(supply)
	if supply == "" {
		return invalid("supply is required")
	}
	v, ok := new(big.Rat).SetString(supply)
	if !ok {
		return invalid(fmt.Sprintf("%q is not a number", supply))
	}
	if v.Sign() <= 0 {
		return invalid("supply must be greater than zero")
	}

	warnLimit := new(big.Rat).SetInt(pow10(supplyWarnExp))
	if v.Cmp(warnLimit) > 0 {
		return validWarn(fmt.Sprintf("supply exceeds 10^%d whole tokens — double-check the amount", supplyWarnExp))
	}
	if decimals > 0 {
		scaled := new(big.Rat).Mul(v, new(big.Rat).SetInt(pow10(decimals)))
		maxUint256 := new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), 256))
		if scaled.Cmp(maxUint256) >= 0 {
			return validWarn("scaled supply does not fit in uint256 — the factory will reject it")
		}
	}
	return valid()
}

// ValidateForm runs every field validator over a form and returns the results
// keyed by field. Symbol is upper-cased first, matching the wizard UI.
func ValidateForm(f TokenForm) map[Field]FieldValidity {
	return map[Field]FieldValidity{
		FieldName:     ValidateName(f.Name),
		FieldSymbol:   ValidateSymbol(strings.ToUpper(f.Symbol)),
		FieldDecimals: ValidateDecimals(int(f.Decimals)),
		FieldSupply:   ValidateSupply(f.InitialSupply, int(f.Decimals)),
	}
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
