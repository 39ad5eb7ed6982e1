package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeDigits drops every character that is not an ASCII digit.
func NormalizeDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone accepts Brazilian numbers with area code: 10 or 11 digits
// once formatting is stripped.
func ValidatePhone(raw string) bool {
	digits := NormalizeDigits(raw)
	return len(digits) == 10 || len(digits) == 11
}

// ValidateNationalID checks a CPF: 11 digits, not all identical, and both
// modulo-11 check digits matching.
func ValidateNationalID(raw string) bool {
	cpf := NormalizeDigits(raw)
	if len(cpf) != 11 || strings.Count(cpf, cpf[:1]) == 11 {
		return false
	}

	digit := func(i int) int { return int(cpf[i] - '0') }
	check := func(n int) int {
		sum := 0
		for i := 0; i < n; i++ {
			sum += digit(i) * (n + 1 - i)
		}
		rem := (sum * 10) % 11
		if rem == 10 {
			rem = 0
		}
		return rem
	}

	return check(9) == digit(9) && check(10) == digit(10)
}

// isCents reports whether d fits the decimal(12,2) money columns without rounding.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
