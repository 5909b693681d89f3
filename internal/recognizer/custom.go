package recognizer

import (
	"github.com/ppiankov/piitier/internal/validate"
)

// Base scores of the custom recognizers
const (
	ScoreHigh   = 0.9
	ScoreMedium = 0.8
	ScoreLow    = 0.7
)

// CreditCardRegex matches Visa, Mastercard, Amex, Diners, Discover and JCB
// numbers with optional space or hyphen separators. Digit bounded.
const CreditCardRegex = `(?:4[0-9]{3}[ \-]?[0-9]{4}[ \-]?[0-9]{4}[ \-]?[0-9]{4}` +
	`|5[1-5][0-9]{2}[ \-]?[0-9]{4}[ \-]?[0-9]{4}[ \-]?[0-9]{4}` +
	`|3[47][0-9]{2}[ \-]?[0-9]{6}[ \-]?[0-9]{5}` +
	`|3(?:0[0-5]|[68][0-9])[ \-]?[0-9]{6}[ \-]?[0-9]{4}` +
	`|6(?:011|5[0-9]{2})[ \-]?[0-9]{4}[ \-]?[0-9]{4}[ \-]?[0-9]{4}` +
	`|(?:2131|1800|35\d{3})[ \-]?\d{11})`

// VehicleRegistrationRegex matches Indian registration plates such as MH 12 AB 1234
const VehicleRegistrationRegex = `\b[A-Z]{2}[ -]?\d{1,2}[ -]?[A-Z]{1,3}[ -]?\d{4}\b`

// UPI handles and bank short names that raise confidence in a UPI ID match
var upiContext = []string{
	"upi", "pay", "payment", "sbi", "icici", "hdfc", "ybl", "okaxis", "pockets",
	"ezeepay", "eazypay", "okicici", "payzapp", "okhdfcbank", "rajgovhdfcbank",
	"mahb", "kotak", "kaypay", "kmb", "kmbl", "yesbank", "yesbankltd", "ubi",
	"united", "utbi", "idbi", "idbibank", "hsbc", "pnb", "centralbank", "cbin",
	"cboi", "cnrb", "barodampay",
}

// Custom returns the Indian document recognizers in registration order
func Custom() []Recognizer {
	return []Recognizer{
		{
			Name:       "IndiaPhoneRecognizer",
			EntityType: "IN_PHONE_NUMBER",
			Patterns: []Pattern{
				{Name: "phone_with_country_code", Regex: `\+91[\s\-]?[6-9]\d{9}\b`, Score: ScoreHigh},
				{Name: "phone_bare", Regex: `[6-9]\d{9}`, Score: ScoreMedium, DigitBounded: true},
			},
			Context:   []string{"phone", "mobile", "number", "registered", "contact", "call"},
			Validator: validate.Phone,
		},
		{
			Name:       "IndiaCreditCardRecognizer",
			EntityType: "IN_CREDIT_CARD",
			Patterns: []Pattern{
				{Name: "credit_card", Regex: CreditCardRegex, Score: ScoreLow, DigitBounded: true},
			},
		},
		{
			Name:       "AadhaarRecognizer",
			EntityType: "IN_AADHAR_CARD_CUSTOM",
			Patterns: []Pattern{
				{Name: "aadhaar_spaced", Regex: `\b\d{4}\s\d{4}\s\d{4}\b`, Score: ScoreHigh},
				{Name: "aadhaar_hyphenated", Regex: `\b\d{4}-\d{4}-\d{4}\b`, Score: ScoreHigh},
				{Name: "aadhaar_continuous", Regex: `\b\d{12}\b`, Score: ScoreMedium},
			},
			Context:   []string{"aadhar", "aadhaar", "uid", "unique", "identification", "number"},
			Validator: validate.NationalID,
		},
		{
			Name:       "IndiaPassportRecognizer",
			EntityType: "IN_PASSPORT_CUSTOM",
			Patterns: []Pattern{
				{Name: "passport", Regex: `\b[A-PR-WY][0-9]{7}\b`, Score: ScoreHigh},
			},
			Context:   []string{"passport", "number", "travel", "document", "international"},
			Validator: validate.Passport,
		},
		{
			Name:       "VehicleRegistrationRecognizer",
			EntityType: "IN_VEHICLE_REGISTRATION_CUSTOM",
			Patterns: []Pattern{
				{Name: "vehicle_registration", Regex: VehicleRegistrationRegex, Score: ScoreLow},
			},
		},
		{
			Name:       "VoterIDRecognizer",
			EntityType: "IN_VOTER_ID_CUSTOM",
			Patterns: []Pattern{
				{Name: "voter_id", Regex: `\b[A-Z]{3}\d{7}\b`, Score: ScoreHigh},
			},
			Context:   []string{"voter", "id", "election", "voting", "card"},
			Validator: validate.VoterID,
		},
		{
			Name:       "IBANRecognizer",
			EntityType: "IBAN_CODE_CUSTOM",
			Patterns: []Pattern{
				{Name: "iban", Regex: `\b[A-Z]{2}[0-9]{2}(?:[ \-]?[A-Z0-9]{4}){2,7}(?:[ \-]?[A-Z0-9]{1,3})?\b`, Score: ScoreLow},
			},
		},
		{
			Name:       "CryptoWalletRecognizer",
			EntityType: "CRYPTO_CUSTOM",
			Patterns: []Pattern{
				{Name: "crypto_wallet", Regex: `\b(?:bc1|[13])[a-zA-HJ-NP-Z0-9]{25,39}\b|\b0x[a-fA-F0-9]{40}\b`, Score: ScoreLow},
			},
		},
		{
			Name:       "MedicalLicenseRecognizer",
			EntityType: "MEDICAL_LICENSE_CUSTOM",
			Patterns: []Pattern{
				{Name: "medical_license", Regex: `\b[A-Z]{2,5}/\d{1,6}\b`, Score: ScoreLow},
			},
		},
		{
			Name:       "PANRecognizer",
			EntityType: "IN_PAN_CUSTOM",
			Patterns: []Pattern{
				{Name: "pan", Regex: `\b[A-Z]{5}\d{4}[A-Z]\b`, Score: ScoreHigh},
			},
			Context:   []string{"pan", "permanent", "account", "number", "income", "tax", "company"},
			Validator: validate.TaxID,
		},
		{
			Name:       "GSTRecognizer",
			EntityType: "IN_GST_NUMBER",
			Patterns: []Pattern{
				{Name: "gstin", Regex: `[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}[0-9A-Z]{1}[0-9A-Z]{1}`, Score: ScoreHigh},
			},
			Context: []string{
				"gst", "registration", "number", "reg", "gstin", "tax",
				"certificate", "government", "india", "form",
			},
			Validator: validate.TaxRegistration,
		},
		{
			Name:       "UPIRecognizer",
			EntityType: "IN_UPI_ID",
			Patterns: []Pattern{
				{Name: "upi_id", Regex: `[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}`, Score: ScoreMedium},
			},
			Context: upiContext,
		},
		{
			Name:       "BankAccountRecognizer",
			EntityType: "IN_BANK_ACCOUNT",
			Patterns: []Pattern{
				{Name: "bank_account_long", Regex: `\d{15,18}`, Score: ScoreMedium, DigitBounded: true},
				{Name: "bank_account_short", Regex: `\d{12,15}`, Score: ScoreLow, DigitBounded: true},
			},
			Context:   []string{"account", "bank", "number", "savings", "current", "ifsc", "registered", "mobile"},
			Validator: validate.BankAccount,
		},
		{
			Name:       "IFSCRecognizer",
			EntityType: "IN_IFSC_CODE",
			Patterns: []Pattern{
				{Name: "ifsc", Regex: `[A-Z]{4}0\d{6}`, Score: ScoreMedium},
			},
		},
		{
			Name:       "DrivingLicenseRecognizer",
			EntityType: "IN_DRIVING_LICENSE",
			Patterns: []Pattern{
				{Name: "dl_hyphenated", Regex: `\b[A-Z]{2}-\d{2}-\d{4}-\d{7}\b`, Score: ScoreHigh},
				{Name: "dl_continuous", Regex: `\b[A-Z]{2}\d{13}\b`, Score: ScoreMedium},
			},
			Context:   []string{"driving", "license", "licence", "dl", "vehicle", "transport"},
			Validator: validate.DrivingLicense,
		},
	}
}

// Default compiles the custom recognizers. The patterns are constant so a
// compile failure is a programming error.
func Default() *Set {
	s, err := NewSet(Custom()...)
	if err != nil {
		panic(err)
	}
	return s
}
