package validate

import "testing"

func TestLuhn(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"4111 1111 1111 1111", true},
		{"5500-0000-0000-0004", true},
		{"378282246310005", true},
		{"4111 1111 1111 1112", false},
		{"1234", false},
		{"4111a11111111111", false},
	}

	for _, tt := range tests {
		if got := Luhn(tt.value); got != tt.expected {
			t.Errorf("Luhn(%q): expected %v, got %v", tt.value, tt.expected, got)
		}
	}
}

func TestIBAN(t *testing.T) {
	if !IBAN("GB82 WEST 1234 5698 7654 32") {
		t.Error("Expected GB example IBAN to validate")
	}
	if !IBAN("DE89370400440532013000") {
		t.Error("Expected DE example IBAN to validate")
	}
	if IBAN("GB82 WEST 1234 5698 7654 33") {
		t.Error("Expected altered IBAN to fail")
	}
	if IBAN("GB82") {
		t.Error("Expected short IBAN to fail")
	}
}

func TestVerhoeff(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"499118665246", true},
		{"2341 2341 2346", true},
		{"2341-2341-2347", false},
		{"123456789012", false},
		{"034123412346", false},
	}

	for _, tt := range tests {
		if got := Verhoeff(tt.value); got != tt.expected {
			t.Errorf("Verhoeff(%q): expected %v, got %v", tt.value, tt.expected, got)
		}
	}
}

func TestSSN(t *testing.T) {
	if !SSN("123-45-6789") {
		t.Error("Expected 123-45-6789 to be accepted")
	}
	for _, v := range []string{"000-12-3456", "666-12-3456", "912-12-3456", "123-00-4567", "123-45-0000", "12-345-678"} {
		if SSN(v) {
			t.Errorf("Expected %s to be rejected", v)
		}
	}
}

func TestIPAddress(t *testing.T) {
	if !IPAddress("192.168.1.10") || !IPAddress("2001:db8::1") {
		t.Error("Expected valid addresses to pass")
	}
	if IPAddress("999.1.1.1") {
		t.Error("Expected out of range octet to fail")
	}
}
