// README:
// Payment types for the Zambian market: MTN and Airtel mobile money,
// card, and cash on delivery. Payment state lives on the booking as an
// independent axis and never gates booking status transitions.
package payment

import (
	"regexp"
	"strings"

	"washride/internal/types"
)

type Method string

const (
	MethodMTNMoney    Method = "mtn_money"
	MethodAirtelMoney Method = "airtel_money"
	MethodCard        Method = "card"
	MethodCash        Method = "cash"
)

// feePercent is the processing surcharge per method.
var feePercent = map[Method]float64{
	MethodMTNMoney:    1.5,
	MethodAirtelMoney: 1.5,
	MethodCard:        2.9,
	MethodCash:        0,
}

func ValidMethod(m Method) bool {
	_, ok := feePercent[m]
	return ok
}

// Fee computes the processing fee for an amount in the smallest
// currency unit, rounded down.
func Fee(m Method, amount int64) int64 {
	return int64(float64(amount) * feePercent[m] / 100)
}

// Total is the charge amount including the method's processing fee.
func Total(m Method, cost types.Money) types.Money {
	return types.Money{Amount: cost.Amount + Fee(m, cost.Amount), Currency: cost.Currency}
}

// Details carries the method-specific payload. Kind always matches the
// populated branch so consumers never have to probe nil fields.
type Details struct {
	Kind   Method       `json:"kind"`
	Mobile *MobileMoney `json:"mobile,omitempty"`
	Card   *Card        `json:"card,omitempty"`
}

type MobileMoney struct {
	Phone string `json:"phone"`
}

type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

// zambianMobile accepts local (0961234567) and international
// (260961234567) forms for MTN and Airtel prefixes.
var zambianMobile = regexp.MustCompile(`^(0|260)?(96|76|97|77)\d{7}$`)

// mtnPrefixes covers 096 and 076; Airtel owns 097 and 077.
var mtnPrefixes = []string{"96", "76"}

// ValidMobile reports whether phone is a valid Zambian mobile number
// for the given mobile money method.
func ValidMobile(m Method, phone string) bool {
	phone = strings.TrimSpace(phone)
	match := zambianMobile.FindStringSubmatch(phone)
	if match == nil {
		return false
	}
	prefix := match[2]
	isMTN := prefix == mtnPrefixes[0] || prefix == mtnPrefixes[1]
	switch m {
	case MethodMTNMoney:
		return isMTN
	case MethodAirtelMoney:
		return !isMTN
	default:
		return false
	}
}

// Validate checks that the details are internally consistent for the
// declared kind.
func (d Details) Validate() error {
	switch d.Kind {
	case MethodMTNMoney, MethodAirtelMoney:
		if d.Mobile == nil || !ValidMobile(d.Kind, d.Mobile.Phone) {
			return ErrInvalidDetails
		}
	case MethodCard:
		if d.Card == nil || d.Card.Number == "" || d.Card.Expiry == "" || d.Card.CVV == "" {
			return ErrInvalidDetails
		}
	case MethodCash:
		// Nothing to validate; the driver settles on delivery.
	default:
		return ErrInvalidDetails
	}
	return nil
}
