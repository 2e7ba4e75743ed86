package services

import "testing"

func TestGenerateVoucherNumberIsValid(t *testing.T) {
	for _, seq := range []int{1, 42, 7992739871, 123456} {
		number := GenerateVoucherNumber(seq)
		if err := ValidateVoucherNumber(number); err != nil {
			t.Errorf("generated voucher %q for seq %d did not validate: %v", number, seq, err)
		}
	}
}

func TestValidateVoucherNumberRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"-123",
		"0",
		"79927398714", // wrong check digit, valid one is 3
	}
	for _, number := range cases {
		if err := ValidateVoucherNumber(number); err == nil {
			t.Errorf("voucher %q validated, want error", number)
		}
	}
}

func TestValidateVoucherNumberAcceptsKnownGood(t *testing.T) {
	// 79927398713 is the classic Luhn test number
	if err := ValidateVoucherNumber("79927398713"); err != nil {
		t.Errorf("voucher 79927398713 rejected: %v", err)
	}
}
