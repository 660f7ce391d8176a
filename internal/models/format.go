package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice formats an integer yen amount with thousands separators (14000 -> "14,000")
func FormatPrice(price int64) string {
	neg := price < 0
	digits := strconv.FormatInt(price, 10)
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ParseDate converts YYYY-MM-DD to YYYY年MM月DD日; other input is returned unchanged
func ParseDate(date string) string {
	return japaneseDate(date, "-")
}

// ParsePayDay converts YYYY/MM/DD to YYYY年MM月DD日; other input is returned unchanged
func ParsePayDay(date string) string {
	return japaneseDate(date, "/")
}

func japaneseDate(date, sep string) string {
	if date == "" {
		return ""
	}
	parts := strings.Split(date, sep)
	if len(parts) != 3 {
		return date
	}
	return fmt.Sprintf("%s年%s月%s日", parts[0], parts[1], parts[2])
}

// ShortDate converts YYYY-MM-DD (or YYYY/MM/DD) to MM/DD for table cells
func ShortDate(date string) string {
	if len(date) >= 10 && (date[4] == '-' || date[4] == '/') && date[7] == date[4] {
		return date[5:7] + "/" + date[8:10]
	}
	return date
}

// FormatDistance formats a distance value the way the remarks column shows it
func FormatDistance(vol float64) string {
	return strconv.FormatFloat(vol, 'f', 1, 64) + "km"
}

// TaxIncluded returns the consumption tax contained in a tax-inclusive price,
// floor(price * rate / (1 + rate)).
func TaxIncluded(price int64, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	r := decimal.NewFromFloat(rate)
	tax := decimal.NewFromInt(price).Mul(r).Div(decimal.NewFromInt(1).Add(r))
	return tax.Floor().IntPart()
}
