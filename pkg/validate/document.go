package validate

import "strings"

// Document validates the 11-digit national identity number.
//
// Normalization strips every non-digit character ("123.456.789-09" and
// "12345678909" are the same identifier). The two check digits are each
// verified with a descending-weight sum over the preceding digits,
// modulo 11, mapped to 0 when the remainder is below 2. Sequences of a
// single repeated digit pass the checksum arithmetic but are known
// invalid issues, so they are rejected outright.
func Document() Func {
	return func(raw string) (any, error) {
		digits := stripNonDigits(raw)
		if len(digits) != 11 {
			return nil, Reject("the document number must have 11 digits")
		}
		if allSameDigit(digits) {
			return nil, Reject("that document number is not valid")
		}
		if !checkDigitOK(digits, 9) || !checkDigitOK(digits, 10) {
			return nil, Reject("that document number is not valid")
		}
		return digits, nil
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// checkDigitOK verifies the check digit at position pos (9 or 10)
// against the weighted sum of the digits before it. Weights descend
// from pos+1 down to 2.
func checkDigitOK(digits string, pos int) bool {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * (pos + 1 - i)
	}
	rem := sum % 11
	want := 11 - rem
	if rem < 2 {
		want = 0
	}
	return int(digits[pos]-'0') == want
}
