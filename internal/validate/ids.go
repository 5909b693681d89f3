package validate

import (
	"strings"
	"unicode"
)

// Func reports whether a raw match is structurally valid for its entity type
type Func func(value string) bool

// Banned leading letters for Indian passport numbers
const bannedPassportPrefixes = "QXZ"

// NationalID accepts a 12 digit Aadhaar number in any space or hyphen grouping
func NationalID(value string) bool {
	digits := stripChars(strings.TrimSpace(value), " \t\n\r-")
	return len(digits) == 12 && allDigits(digits)
}

// TaxID accepts a PAN: five letters, four digits, one letter
func TaxID(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) != 10 {
		return false
	}
	return allAlpha(v[0:5]) && allDigits(v[5:9]) && allAlpha(v[9:10])
}

// VoterID accepts an EPIC number: three letters followed by seven digits
func VoterID(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) != 10 {
		return false
	}
	return allAlpha(v[0:3]) && allDigits(v[3:10])
}

// BankAccount accepts 9 to 18 digits and nothing else
func BankAccount(value string) bool {
	v := strings.TrimSpace(value)
	return len(v) >= 9 && len(v) <= 18 && allDigits(v)
}

// Phone accepts an Indian mobile number with or without the +91 prefix
func Phone(value string) bool {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	v := strings.TrimPrefix(b.String(), "+91")
	if len(v) != 10 || !allDigits(v) {
		return false
	}
	return strings.ContainsRune("6789", rune(v[0]))
}

// Passport accepts one permitted letter followed by seven digits
func Passport(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) != 8 {
		return false
	}
	if !allAlpha(v[0:1]) || strings.ContainsRune(bannedPassportPrefixes, rune(v[0])) {
		return false
	}
	return allDigits(v[1:])
}

// DrivingLicense accepts a two letter state code followed by 13 digits,
// ignoring spaces and hyphens
func DrivingLicense(value string) bool {
	v := stripChars(strings.TrimSpace(value), " -")
	if len(v) != 15 {
		return false
	}
	return allAlpha(v[0:2]) && allDigits(v[2:])
}

// TaxRegistration accepts a GSTIN whose first two digits are a known state code
func TaxRegistration(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) != 15 {
		return false
	}
	if !IsStateCode(v[0:2]) {
		return false
	}
	return allAlpha(v[2:7]) && allDigits(v[7:11]) && allAlpha(v[11:12])
}

func stripChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
