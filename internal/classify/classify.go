// Package classify assigns entity types to sensitivity tiers and derives
// the document verdict used for stamping.
package classify

import (
	"github.com/ppiankov/piitier/internal/model"
	"go.uber.org/zap"
)

var (
	confidential = set(
		"IN_AADHAR", "IN_AADHAR_CARD_CUSTOM", "IN_PASSPORT", "IN_PASSPORT_CUSTOM",
		"IN_CREDIT_CARD", "CREDIT_CARD", "IN_BANK_ACCOUNT", "MEDICAL_LICENSE",
		"MEDICAL_LICENSE_CUSTOM", "CRYPTO", "CRYPTO_CUSTOM",
	)
	private = set(
		"PERSON", "EMAIL_ADDRESS", "PHONE_NUMBER", "IN_PHONE_NUMBER", "IN_PAN",
		"IN_PAN_CUSTOM", "IN_DRIVING_LICENSE", "IN_UPI_ID", "DATE_TIME", "LOCATION",
	)
	restricted = set(
		"IN_GST_NUMBER", "IN_IFSC_CODE", "IN_VEHICLE_REGISTRATION",
		"IN_VEHICLE_REGISTRATION_CUSTOM", "IN_VOTER", "IN_VOTER_ID_CUSTOM", "IBAN_CODE",
		"IBAN_CODE_CUSTOM", "IP_ADDRESS", "URL", "NRP",
	)
)

func set(types ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}

// TierOf returns the static tier for an entity type, or TierOther
func TierOf(entityType string) model.Tier {
	if _, ok := confidential[entityType]; ok {
		return model.TierConfidential
	}
	if _, ok := private[entityType]; ok {
		return model.TierPrivate
	}
	if _, ok := restricted[entityType]; ok {
		return model.TierRestricted
	}
	return model.TierOther
}

// Classifier buckets findings by tier
type Classifier struct {
	logger *zap.Logger
}

// New creates a classifier; a nil logger discards anomaly reports
func New(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// Classify buckets findings in findings order. Types outside every tier
// land in Other and are reported as an anomaly.
func (c *Classifier) Classify(fileName string, findings *model.FindingsMap) model.Categories {
	cats := model.NewCategories()
	if findings == nil {
		return cats
	}

	for _, entityType := range findings.Types() {
		values := findings.Values(entityType)
		bucket := model.EntityBucket{EntityType: entityType, Count: len(values), Values: values}

		switch TierOf(entityType) {
		case model.TierConfidential:
			cats.Confidential = append(cats.Confidential, bucket)
		case model.TierPrivate:
			cats.Private = append(cats.Private, bucket)
		case model.TierRestricted:
			cats.Restricted = append(cats.Restricted, bucket)
		default:
			cats.Other = append(cats.Other, bucket)
			c.logger.Warn("Unknown entity type",
				zap.String("file_name", fileName),
				zap.String("entity_type", entityType))
		}
	}
	return cats
}

// Categorize builds the full per-document record
func (c *Classifier) Categorize(fileName, summary string, findings *model.FindingsMap) model.CategorizedDocument {
	if findings == nil {
		findings = model.NewFindingsMap()
	}
	if summary == "" {
		summary = findings.Summary()
	}

	hasPII := "no"
	if !findings.IsEmpty() {
		hasPII = "yes"
	}

	cats := c.Classify(fileName, findings)
	return model.CategorizedDocument{
		FileName:   fileName,
		HasPII:     hasPII,
		Summary:    summary,
		Findings:   findings,
		Categories: cats,
		Verdict:    Verdict(cats),
	}
}

// Verdict applies the cascade: more than two Confidential entries, then more
// than two Private entries, then any Restricted entry; otherwise Public.
// Entries are entity types, not values.
func Verdict(cats model.Categories) model.Verdict {
	switch {
	case len(cats.Confidential) > 2:
		return model.VerdictConfidential
	case len(cats.Private) > 2:
		return model.VerdictPrivate
	case len(cats.Restricted) > 0:
		return model.VerdictRestricted
	default:
		return model.VerdictPublic
	}
}
