package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// Money форматирует сумму для отображения: два знака и разделители тысяч.
// Округление выполняется только здесь, расчеты идут в полной точности.
func Money(value float64) string {
	fixed := decimal.NewFromFloat(value).Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	if sign == "-" && b.String() == "0" && fracPart == "00" {
		sign = ""
	}
	return sign + b.String() + "." + fracPart
}

// Percent форматирует процентную ставку
func Percent(value float64) string {
	return decimal.NewFromFloat(value).Round(2).String() + "%"
}
