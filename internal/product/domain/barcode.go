package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// InStorePrefix is the GS1 prefix reserved for restricted in-store numbering
const InStorePrefix = "200"

// GenerateBarcode returns a random EAN-13 in the in-store range
func GenerateBarcode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", fmt.Errorf("generate barcode: %w", err)
	}
	body := fmt.Sprintf("%s%09d", InStorePrefix, n.Int64())
	return body + string('0'+EAN13CheckDigit(body)), nil
}

// EAN13CheckDigit computes the check digit for the first 12 digits of an EAN-13
func EAN13CheckDigit(body string) byte {
	sum := 0
	for i := 0; i < 12 && i < len(body); i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte((10 - sum%10) % 10)
}

// ValidEAN13 reports whether code is 13 digits with a correct check digit
func ValidEAN13(code string) bool {
	if len(code) != 13 {
		return false
	}
	for i := 0; i < 13; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return code[12]-'0' == EAN13CheckDigit(code[:12])
}
