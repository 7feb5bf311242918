// README: Common money value object used across modules.
package types

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const CurrencyKRW = "KRW"

// Money is an integral amount in the currency's smallest unit. KRW has no minor unit.
type Money struct {
	Amount   int64
	Currency string
}

func KRW(amount int64) Money {
	return Money{Amount: amount, Currency: CurrencyKRW}
}

// Format renders the amount with locale grouping, e.g. "₩40,000".
func (m Money) Format() string {
	p := message.NewPrinter(language.Korean)
	amount, sign := m.Amount, ""
	if amount < 0 {
		amount, sign = -amount, "-"
	}
	if m.Currency == CurrencyKRW || m.Currency == "" {
		return p.Sprintf("%s₩%d", sign, amount)
	}
	return p.Sprintf("%s%d %s", sign, amount, m.Currency)
}

func (m Money) String() string { return m.Format() }
