// Package entities holds the catalog of detectable entity types and resolves
// a caller's selection into the list handed to the detectors.
package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/piitier/internal/model"
)

// ErrUnknownCountry is returned by Resolve for a country outside the catalog
var ErrUnknownCountry = errors.New("unknown country")

// Global entity types apply regardless of country
var Global = []string{
	"CREDIT_CARD", "CRYPTO", "DATE_TIME", "EMAIL_ADDRESS", "IBAN_CODE", "IP_ADDRESS", "NRP",
	"LOCATION", "PERSON", "PHONE_NUMBER", "MEDICAL_LICENSE", "URL",
}

// Custom entity types are served by piitier's own recognizers
var Custom = []string{
	"IN_PHONE_NUMBER", "IN_CREDIT_CARD", "IN_AADHAR_CARD_CUSTOM", "IN_PASSPORT_CUSTOM",
	"IN_VEHICLE_REGISTRATION_CUSTOM", "IN_VOTER_ID_CUSTOM", "IBAN_CODE_CUSTOM", "CRYPTO_CUSTOM",
	"MEDICAL_LICENSE_CUSTOM", "IN_PAN_CUSTOM", "IN_GST_NUMBER", "IN_UPI_ID",
	"IN_BANK_ACCOUNT", "IN_IFSC_CODE", "IN_DRIVING_LICENSE",
}

// Countries maps a country name to its entity types
var Countries = map[string][]string{
	"USA":       {"US_BANK_NUMBER", "US_DRIVER_LICENSE", "US_ITIN", "US_PASSPORT", "US_SSN"},
	"UK":        {"UK_NHS", "UK_NINO"},
	"Spain":     {"ES_NIF", "ES_NIE"},
	"Italy":     {"IT_FISCAL_CODE", "IT_DRIVER_LICENSE", "IT_VAT_CODE", "IT_PASSPORT", "IT_IDENTITY_CARD"},
	"Poland":    {"PL_PESEL"},
	"Singapore": {"SG_NRIC_FIN", "SG_UEN"},
	"Australia": {"AU_ABN", "AU_ACN", "AU_TFN", "AU_MEDICARE"},
	"India": {
		"IN_PAN", "IN_AADHAR", "IN_VEHICLE_REGISTRATION", "IN_VOTER", "IN_PASSPORT",
		"IN_PHONE_NUMBER", "IN_CREDIT_CARD", "IN_AADHAR_CARD_CUSTOM", "IN_PASSPORT_CUSTOM",
		"IN_VEHICLE_REGISTRATION_CUSTOM", "IN_VOTER_ID_CUSTOM", "IN_PAN_CUSTOM",
		"IN_GST_NUMBER", "IN_UPI_ID", "IN_BANK_ACCOUNT", "IN_IFSC_CODE", "IN_DRIVING_LICENSE",
	},
	"Finland": {"FI_PERSONAL_IDENTITY_CODE"},
}

// countryOrder fixes iteration order over Countries
var countryOrder = []string{"USA", "UK", "Spain", "Italy", "Poland", "Singapore", "Australia", "India", "Finland"}

// aliases maps user-facing names to the detector types that serve them
var aliases = map[string][]string{
	"IN_AADHAR":               {"IN_AADHAR_CARD_CUSTOM", "IN_AADHAAR"},
	"IN_VOTER":                {"IN_VOTER_ID_CUSTOM"},
	"IN_PAN":                  {"IN_PAN_CUSTOM", "IN_PAN"},
	"IN_PASSPORT":             {"IN_PASSPORT_CUSTOM"},
	"IN_VEHICLE_REGISTRATION": {"IN_VEHICLE_REGISTRATION_CUSTOM"},
	"IBAN_CODE":               {"IBAN_CODE_CUSTOM", "IBAN_CODE"},
	"CRYPTO":                  {"CRYPTO_CUSTOM", "CRYPTO"},
	"MEDICAL_LICENSE":         {"MEDICAL_LICENSE_CUSTOM", "MEDICAL_LICENSE"},
	"IN_PHONE_NUMBER":         {"IN_PHONE_NUMBER", "PHONE_NUMBER"},
	"IN_CREDIT_CARD":          {"IN_CREDIT_CARD", "CREDIT_CARD"},
}

// CountryNames returns the catalog's countries in display order
func CountryNames() []string {
	return append([]string(nil), countryOrder...)
}

// All returns global, every country's and custom types, deduplicated in order
func All() []string {
	lists := [][]string{Global}
	for _, c := range countryOrder {
		lists = append(lists, Countries[c])
	}
	lists = append(lists, Custom)
	return dedupe(lists...)
}

// Expand replaces user-facing names with their detector types. Unknown
// names pass through so ad-hoc types still reach the LLM.
func Expand(selected []string) []string {
	out := make([]string, 0, len(selected))
	for _, name := range selected {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if mapped, ok := aliases[name]; ok {
			out = append(out, mapped...)
			continue
		}
		out = append(out, name)
	}
	return dedupe(out)
}

// Resolve picks the entity list for a request: the expanded selection if
// any, else global plus the country's types, else everything.
func Resolve(selected []string, country string) ([]string, error) {
	if expanded := Expand(selected); len(expanded) > 0 {
		return expanded, nil
	}

	country = strings.TrimSpace(country)
	if country == "" {
		return All(), nil
	}

	name, ok := lookupCountry(country)
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownCountry, country, strings.Join(countryOrder, ", "))
	}
	return dedupe(Global, Countries[name]), nil
}

// lookupCountry matches case-insensitively so "usa", "Usa" and "USA" agree
func lookupCountry(country string) (string, bool) {
	for _, name := range countryOrder {
		if strings.EqualFold(name, country) {
			return name, true
		}
	}
	return "", false
}

// ParseCategoryMapping decodes a JSON object of entity type to category.
// Empty input yields an empty mapping.
func ParseCategoryMapping(raw string) (map[string]string, error) {
	mapping := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, model.NewInputError("category_mapping", "must be a JSON object of strings")
	}
	// "null" decodes without error into a nil map
	if mapping == nil {
		return nil, model.NewInputError("category_mapping", "must be a JSON object of strings")
	}
	return mapping, nil
}

// Aliases returns the user-facing names that expand to detector types, sorted
func Aliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, e := range list {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}
