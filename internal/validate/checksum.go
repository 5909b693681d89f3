package validate

import (
	"net"
	"strings"
)

// Luhn reports whether the digits of value (ignoring spaces and hyphens)
// satisfy the Luhn checksum
func Luhn(value string) bool {
	number := stripChars(strings.TrimSpace(value), " -")
	if len(number) < 12 || !allDigits(number) {
		return false
	}

	sum := 0
	isDouble := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if isDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		isDouble = !isDouble
	}
	return sum%10 == 0
}

// IBAN reports whether value passes the ISO 13616 mod-97 check
func IBAN(value string) bool {
	iban := strings.ToUpper(stripChars(strings.TrimSpace(value), " -"))
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}

	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			remainder = (remainder*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			n := int(r-'A') + 10
			remainder = (remainder*100 + n) % 97
		default:
			return false
		}
	}
	return remainder == 1
}

var (
	verhoeffMul = [10][10]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
		{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
		{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
		{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
		{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
		{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
		{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
		{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}
	verhoeffPerm = [8][10]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
		{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
		{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
		{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
		{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
		{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
		{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
	}
)

// Verhoeff reports whether the digits of value carry a valid Verhoeff check
// digit. Aadhaar numbers use it and never start with 0 or 1.
func Verhoeff(value string) bool {
	number := stripChars(strings.TrimSpace(value), " -:")
	if len(number) != 12 || !allDigits(number) || number[0] < '2' {
		return false
	}

	c := 0
	for i := 0; i < len(number); i++ {
		digit := int(number[len(number)-1-i] - '0')
		c = verhoeffMul[c][verhoeffPerm[i%8][digit]]
	}
	return c == 0
}

// SSN rejects US social security numbers with never-issued area, group or
// serial numbers
func SSN(value string) bool {
	ssn := stripChars(strings.TrimSpace(value), " -.")
	if len(ssn) != 9 || !allDigits(ssn) {
		return false
	}
	area, group, serial := ssn[0:3], ssn[3:5], ssn[5:9]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	return group != "00" && serial != "0000"
}

// IPAddress reports whether value parses as an IPv4 or IPv6 address
func IPAddress(value string) bool {
	return net.ParseIP(strings.TrimSpace(value)) != nil
}
