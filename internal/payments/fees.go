package payments

import (
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// Platform fee rates by transaction type. Types absent from the table carry
// no fee.
var feeRates = map[transaction.Type]decimal.Decimal{
	transaction.TypeJobPayment:       decimal.NewFromFloat(0.029),
	transaction.TypeMilestonePayment: decimal.NewFromFloat(0.029),
	transaction.TypeBonus:            decimal.NewFromFloat(0.015),
}

var oneHundred = decimal.NewFromInt(100)

// CalculateTransactionFee returns the platform fee in minor units for a
// payment of the given amount and type. The fee is informational only; no
// orchestrator path deducts it from a transfer.
func CalculateTransactionFee(amount int64, txnType transaction.Type) int64 {
	rate, ok := feeRates[txnType]
	if !ok || amount <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// FeeRate returns the fee rate for a transaction type as a fraction,
// zero for fee-free types
func FeeRate(txnType transaction.Type) decimal.Decimal {
	rate, ok := feeRates[txnType]
	if !ok {
		return decimal.Zero
	}
	return rate
}

// FormatAmount renders an amount in minor units as a decimal string with two
// fraction digits, for notification text and API payloads
func FormatAmount(amount int64) string {
	return decimal.NewFromInt(amount).Div(oneHundred).StringFixed(2)
}
