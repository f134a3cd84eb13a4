package sl

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Err creates a slog.Attr with the given error.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Money creates a slog.Attr holding an amount with two decimal places.
func Money(key string, amount decimal.Decimal) slog.Attr {
	return slog.String(key, amount.StringFixed(2))
}
