package engine

import (
	"github.com/ppiankov/piitier/internal/recognizer"
	"github.com/ppiankov/piitier/internal/validate"
)

// Predefined returns the recognizers the pattern engine ships with, in the
// shape of the general purpose recognizers of NLP entity engines. Their
// validators are applied by the engine itself.
func Predefined() []recognizer.Recognizer {
	return []recognizer.Recognizer{
		{
			Name:       "EmailRecognizer",
			EntityType: "EMAIL_ADDRESS",
			Patterns: []recognizer.Pattern{
				{Name: "email", Regex: `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, Score: 0.5},
			},
			Context: []string{"email", "mail", "e-mail", "contact"},
		},
		{
			Name:       "UrlRecognizer",
			EntityType: "URL",
			Patterns: []recognizer.Pattern{
				{Name: "url_scheme", Regex: `\bhttps?://[^\s<>"'()]+`, Score: 0.6},
				{Name: "url_www", Regex: `\bwww\.[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)+[^\s<>"'()]*`, Score: 0.5},
			},
			Context: []string{"url", "website", "link", "site"},
		},
		{
			Name:       "IpRecognizer",
			EntityType: "IP_ADDRESS",
			Patterns: []recognizer.Pattern{
				{Name: "ipv4", Regex: `\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`, Score: 0.6},
			},
			Context:   []string{"ip", "ipv4", "address", "server", "host"},
			Validator: validate.IPAddress,
		},
		{
			Name:       "CreditCardRecognizer",
			EntityType: "CREDIT_CARD",
			Patterns: []recognizer.Pattern{
				{Name: "credit_card", Regex: recognizer.CreditCardRegex, Score: 0.3, DigitBounded: true},
			},
			Context:   []string{"credit", "card", "visa", "mastercard", "amex", "discover", "jcb", "diners"},
			Validator: validate.Luhn,
		},
		{
			Name:       "IbanRecognizer",
			EntityType: "IBAN_CODE",
			Patterns: []recognizer.Pattern{
				{Name: "iban", Regex: `\b[A-Z]{2}\d{2}[ ]?(?:[A-Z0-9]{4}[ ]?){2,7}[A-Z0-9]{1,3}\b`, Score: 0.5},
			},
			Context:   []string{"iban", "bank", "transaction"},
			Validator: validate.IBAN,
		},
		{
			Name:       "CryptoRecognizer",
			EntityType: "CRYPTO",
			Patterns: []recognizer.Pattern{
				{Name: "bitcoin", Regex: `\b(?:bc1|[13])[a-zA-HJ-NP-Z0-9]{25,59}\b`, Score: 0.5},
			},
			Context: []string{"wallet", "btc", "bitcoin", "crypto"},
		},
		{
			Name:       "DateRecognizer",
			EntityType: "DATE_TIME",
			Patterns: []recognizer.Pattern{
				{Name: "dmy", Regex: `\b(?:0?[1-9]|[12]\d|3[01])[/\-.](?:0?[1-9]|1[0-2])[/\-.](?:19|20)\d{2}\b`, Score: 0.6},
				{Name: "ymd", Regex: `\b(?:19|20)\d{2}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])\b`, Score: 0.6},
				{Name: "day_month_name", Regex: `\b(?:0?[1-9]|[12]\d|3[01])\s(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*,?\s(?:19|20)\d{2}\b`, Score: 0.6},
				{Name: "month_name_day", Regex: `\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\s(?:0?[1-9]|[12]\d|3[01]),?\s(?:19|20)\d{2}\b`, Score: 0.6},
			},
			Context: []string{"date", "birth", "dob", "born", "issued", "expiry", "valid"},
		},
		{
			Name:       "PhoneRecognizer",
			EntityType: "PHONE_NUMBER",
			Patterns: []recognizer.Pattern{
				{Name: "phone_international", Regex: `\+\d{1,3}[\s.\-]?\(?\d{2,4}\)?[\s.\-]?\d{3,4}[\s.\-]?\d{3,4}`, Score: 0.4, DigitBounded: true},
				{Name: "phone_us", Regex: `\(\d{3}\)\s?\d{3}[\s.\-]\d{4}`, Score: 0.4, DigitBounded: true},
			},
			Context: []string{"phone", "number", "telephone", "cell", "mobile", "call", "tel"},
		},
		{
			Name:       "MedicalLicenseRecognizer",
			EntityType: "MEDICAL_LICENSE",
			Patterns: []recognizer.Pattern{
				{Name: "dea", Regex: `\b[ABCDEFGHJKLMPRSTUXabcdefghjklmprstux][A-Za-z]\d{7}\b`, Score: 0.4},
			},
			Context: []string{"medical", "certificate", "dea"},
		},
		{
			Name:       "UsSsnRecognizer",
			EntityType: "US_SSN",
			Patterns: []recognizer.Pattern{
				{Name: "ssn", Regex: `\b\d{3}[\-. ]\d{2}[\-. ]\d{4}\b`, Score: 0.5},
			},
			Context:   []string{"social", "security", "ssn", "ssns", "ssid"},
			Validator: validate.SSN,
		},
		{
			Name:       "InPanRecognizer",
			EntityType: "IN_PAN",
			Patterns: []recognizer.Pattern{
				{Name: "pan", Regex: `\b[A-Za-z]{3}[AaBbCcFfGgHhJjLlPpTt][A-Za-z]\d{4}[A-Za-z]\b`, Score: 0.85},
			},
			Context: []string{"permanent", "account", "number", "pan"},
		},
		{
			Name:       "InAadhaarRecognizer",
			EntityType: "IN_AADHAAR",
			Patterns: []recognizer.Pattern{
				{Name: "aadhaar", Regex: `\b[0-9]{4}[\- :]?[0-9]{4}[\- :]?[0-9]{4}\b`, Score: 0.4},
			},
			Context:   []string{"aadhaar", "aadhar", "uidai", "uid"},
			Validator: validate.Verhoeff,
		},
	}
}
