// file: internals/features/finance/fees/service/amount_words.go
package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	wordOnes = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	wordTens = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// AmountInWords spells an amount the way Indian receipts do (crore / lakh / thousand),
// e.g. 125000.50 → "Rupees One Lakh Twenty Five Thousand and Fifty Paise Only".
func AmountInWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		amount = amount.Neg()
	}
	rounded := amount.Round(2)
	rupees := rounded.Truncate(0)
	paise := rounded.Sub(rupees).Mul(decimal.NewFromInt(100)).IntPart()

	words := indianWords(rupees.IntPart())
	if words == "" {
		words = "Zero"
	}

	var b strings.Builder
	b.WriteString("Rupees ")
	b.WriteString(words)
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(indianWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

func indianWords(n int64) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, 0, 6)
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, indianWords(crore), "Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(lakh), "Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand), "Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, wordOnes[hundred], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return wordOnes[n]
	}
	if n%10 == 0 {
		return wordTens[n/10]
	}
	return wordTens[n/10] + " " + wordOnes[n%10]
}
