// file: internals/features/finance/fees/service/receipt_number.go
package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// ReceiptNumberGenerator hands out receipt numbers. Uniqueness is enforced by the
// store (unique index + retry), not by the generator.
type ReceiptNumberGenerator interface {
	Next() (string, error)
}

const (
	DefaultReceiptPrefix = "CIMS00"
	DefaultReceiptDigits = 6
)

// RandomReceiptNumbers produces Prefix + zero-padded random digits, e.g. CIMS00042917.
type RandomReceiptNumbers struct {
	Prefix string
	Digits int
}

func NewRandomReceiptNumbers(prefix string, digits int) RandomReceiptNumbers {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultReceiptPrefix
	}
	if digits <= 0 || digits > 18 {
		digits = DefaultReceiptDigits
	}
	return RandomReceiptNumbers{Prefix: prefix, Digits: digits}
}

func (g RandomReceiptNumbers) Next() (string, error) {
	digits := g.Digits
	if digits <= 0 {
		digits = DefaultReceiptDigits
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("receipt number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", g.Prefix, digits, n), nil
}

// FixedReceiptNumber always returns the same number; used when staff supply one.
type FixedReceiptNumber string

func (f FixedReceiptNumber) Next() (string, error) { return string(f), nil }
