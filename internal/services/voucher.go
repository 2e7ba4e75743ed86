package services

import (
	"fmt"
	"strconv"

	"github.com/theplant/luhn"

	"zakupBack/internal/models"
)

// Check voucher numbers are numeric with a trailing Luhn check digit, so a
// mistyped number from the treasury desk is caught before it reaches a check.

// ValidateVoucherNumber reports whether the voucher number carries a valid
// check digit.
func ValidateVoucherNumber(number string) error {
	if number == "" {
		return models.ErrInvalidVoucherNumber
	}
	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		return models.ErrInvalidVoucherNumber
	}
	if !luhn.Valid(n) {
		return models.ErrInvalidVoucherNumber
	}
	return nil
}

// GenerateVoucherNumber appends the Luhn check digit to a sequence number.
func GenerateVoucherNumber(seq int) string {
	return fmt.Sprintf("%d%d", seq, luhn.CalculateLuhn(seq))
}
