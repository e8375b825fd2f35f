package validate

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

const receiptBodyLen = 11

func IsLuna(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// ReceiptCode returns a 12 digit code whose last digit is the Luhn check digit.
func ReceiptCode() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(rand.IntN(9) + 1))
	for b.Len() < receiptBodyLen {
		b.WriteString(strconv.Itoa(rand.IntN(10)))
	}
	return WithCheckDigit(b.String())
}

// WithCheckDigit appends the digit that makes body pass IsLuna.
func WithCheckDigit(body string) string {
	for d := 0; d < 10; d++ {
		candidate := body + strconv.Itoa(d)
		if IsLuna(candidate) {
			return candidate
		}
	}
	return ""
}
