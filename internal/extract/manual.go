package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
	"github.com/ppiankov/piitier/internal/validate"
)

type manualPattern struct {
	entityType   string
	re           *regexp.Regexp
	digitBounded bool
	validator    validate.Func
}

// manualPatterns is the critical subset re-checked with plain regexes after
// the analyzer, in application order
var manualPatterns = []manualPattern{
	{entityType: "IN_AADHAR_CARD_CUSTOM", re: regexp.MustCompile(`\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`), validator: validate.NationalID},
	{entityType: "IN_AADHAAR", re: regexp.MustCompile(`\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`), validator: validate.NationalID},
	{entityType: "IN_VOTER_ID_CUSTOM", re: regexp.MustCompile(`\b[A-Z]{3}\d{7}\b`), validator: validate.VoterID},
	{entityType: "IN_PAN_CUSTOM", re: regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`), validator: validate.TaxID},
	{entityType: "IN_PAN", re: regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`), validator: validate.TaxID},
	{entityType: "IN_BANK_ACCOUNT", re: regexp.MustCompile(`\d{12,18}`), digitBounded: true, validator: validate.BankAccount},
	{entityType: "IN_PHONE_NUMBER", re: regexp.MustCompile(`(?:\+91[\s\-]?)?(?:0)?[6-9]\d{9}\b`), validator: validate.Phone},
	{entityType: "IN_PASSPORT_CUSTOM", re: regexp.MustCompile(`\b[A-PR-WY][0-9]{7}\b`), validator: validate.Passport},
	{entityType: "IN_VEHICLE_REGISTRATION_CUSTOM", re: regexp.MustCompile(recognizer.VehicleRegistrationRegex)},
	{entityType: "IN_DRIVING_LICENSE", re: regexp.MustCompile(`\b[A-Z]{2}-?\d{2}-?\d{4}-?\d{7}\b`), validator: validate.DrivingLicense},
}

// ManualEntityTypes returns the entity types the manual fallback covers
func ManualEntityTypes() []string {
	out := make([]string, 0, len(manualPatterns))
	for _, p := range manualPatterns {
		out = append(out, p.entityType)
	}
	return out
}

// ManualDetector re-scans the original text for high-value identifiers the
// analyzer may have scored below the floor or missed
type ManualDetector struct{}

// NewManualDetector creates a manual fallback detector
func NewManualDetector() *ManualDetector {
	return &ManualDetector{}
}

// Name returns the detector name
func (d *ManualDetector) Name() string {
	return "manual"
}

// Detect applies the pattern of every requested type in the critical subset
func (d *ManualDetector) Detect(ctx context.Context, text string, requested []string) (*model.FindingsMap, error) {
	findings := model.NewFindingsMap()

	for _, p := range manualPatterns {
		if !contains(requested, p.entityType) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, loc := range recognizer.FindBounded(p.re, text, p.digitBounded) {
			value := strings.TrimSpace(text[loc[0]:loc[1]])
			if value == "" {
				continue
			}
			if p.validator != nil && !p.validator(value) {
				continue
			}
			findings.Add(p.entityType, value)
		}
	}

	return findings, nil
}
