package classify

import (
	"strings"
	"testing"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func buckets(n int) []model.EntityBucket {
	out := make([]model.EntityBucket, n)
	for i := range out {
		out[i] = model.EntityBucket{EntityType: strings.Repeat("T", i+1), Count: 1, Values: []string{"v"}}
	}
	return out
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name                              string
		confidential, private, restricted int
		want                              model.Verdict
	}{
		{"confidential wins", 3, 5, 1, model.VerdictConfidential},
		{"private when confidential is two", 2, 3, 1, model.VerdictPrivate},
		{"restricted", 2, 2, 1, model.VerdictRestricted},
		{"public when empty", 0, 0, 0, model.VerdictPublic},
		{"public below thresholds", 2, 2, 0, model.VerdictPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := model.NewCategories()
			cats.Confidential = buckets(tt.confidential)
			cats.Private = buckets(tt.private)
			cats.Restricted = buckets(tt.restricted)
			assert.Equal(t, tt.want, Verdict(cats))
		})
	}
}

func TestTierSetsDisjoint(t *testing.T) {
	seen := map[string]string{}
	for name, tier := range map[string]map[string]struct{}{
		"confidential": confidential, "private": private, "restricted": restricted,
	} {
		for entityType := range tier {
			if other, ok := seen[entityType]; ok {
				t.Errorf("%s in both %s and %s", entityType, other, name)
			}
			seen[entityType] = name
		}
	}
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, model.TierConfidential, TierOf("IN_AADHAR_CARD_CUSTOM"))
	assert.Equal(t, model.TierPrivate, TierOf("IN_PAN_CUSTOM"))
	assert.Equal(t, model.TierRestricted, TierOf("IN_GST_NUMBER"))
	assert.Equal(t, model.TierOther, TierOf("ENGINE_NO"))
}

func TestClassify_UnknownTypeGoesToOther(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := New(zap.New(core))

	findings := model.NewFindingsMap()
	findings.Add("MY_CUSTOM_ID", "X-1")
	findings.Add("IN_PAN_CUSTOM", "ABCDE1234F")

	cats := c.Classify("invoice.pdf", findings)

	require.Len(t, cats.Other, 1)
	assert.Equal(t, model.EntityBucket{EntityType: "MY_CUSTOM_ID", Count: 1, Values: []string{"X-1"}}, cats.Other[0])
	require.Len(t, cats.Private, 1)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "invoice.pdf", entry.ContextMap()["file_name"])
	assert.Equal(t, "MY_CUSTOM_ID", entry.ContextMap()["entity_type"])
}

func TestCategorize(t *testing.T) {
	findings := model.NewFindingsMap()
	findings.AddAll("IN_AADHAR_CARD_CUSTOM", []string{"2341 2341 2346", "4991 1866 5246"})
	findings.Add("IN_PASSPORT_CUSTOM", "A1234567")
	findings.Add("IN_BANK_ACCOUNT", "123456789012345")
	findings.Add("IN_IFSC_CODE", "SBIN0001234")

	doc := New(nil).Categorize("kyc.pdf", "", findings)

	assert.Equal(t, "yes", doc.HasPII)
	assert.Equal(t, findings.Summary(), doc.Summary)
	assert.Equal(t, model.VerdictConfidential, doc.Verdict)
	require.Len(t, doc.Categories.Confidential, 3)
	assert.Equal(t, 2, doc.Categories.Confidential[0].Count)
	assert.Equal(t, "IN_AADHAR_CARD_CUSTOM", doc.Categories.Confidential[0].EntityType)
}

func TestCategorize_NoFindings(t *testing.T) {
	doc := New(nil).Categorize("blank.txt", model.NoPIIFound, nil)

	assert.Equal(t, "no", doc.HasPII)
	assert.Equal(t, model.NoPIIFound, doc.Summary)
	assert.Equal(t, model.VerdictPublic, doc.Verdict)
	assert.NotNil(t, doc.Categories.Other)
	assert.True(t, doc.Findings.IsEmpty())
}
