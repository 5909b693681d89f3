package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/recognizer"
	"github.com/ppiankov/piitier/internal/validate"
)

// ScoreFloor is the minimum analyzer score kept in findings
const ScoreFloor = 0.2

const (
	maskChar        = 'X'
	creditCardScore = recognizer.ScoreLow
)

var creditCardRe = regexp.MustCompile(recognizer.CreditCardRegex)

// EntityAnalyzer returns validated entity spans
type EntityAnalyzer interface {
	Analyze(ctx context.Context, text string, requested []string) []model.EntityMatch
}

// AnalyzerDetector turns analyzer spans into findings. When a credit card
// type is requested, card numbers are masked before analysis so no other
// recognizer re-reads their digits; the masked spans are reported directly.
type AnalyzerDetector struct {
	analyzer   EntityAnalyzer
	scoreFloor float64
}

// NewAnalyzerDetector creates a detector over an analyzer. A floor outside
// 0..1 falls back to ScoreFloor.
func NewAnalyzerDetector(a EntityAnalyzer, scoreFloor float64) *AnalyzerDetector {
	if scoreFloor <= 0 || scoreFloor > 1 {
		scoreFloor = ScoreFloor
	}
	return &AnalyzerDetector{analyzer: a, scoreFloor: scoreFloor}
}

// Name returns the detector name
func (d *AnalyzerDetector) Name() string {
	return "analyzer"
}

// Detect analyzes a working copy of text and slices values from the original
func (d *AnalyzerDetector) Detect(ctx context.Context, text string, requested []string) (*model.FindingsMap, error) {
	working := text
	var cards []model.EntityMatch

	if contains(requested, "IN_CREDIT_CARD") || contains(requested, "CREDIT_CARD") {
		working, cards = MaskCreditCards(text, requested)
	}

	matches := append(cards, d.analyzer.Analyze(ctx, working, requested)...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	findings := model.NewFindingsMap()
	for _, m := range matches {
		if m.Score < d.scoreFloor || m.Start < 0 || m.End > len(text) || m.Start >= m.End {
			continue
		}
		value := strings.TrimSpace(text[m.Start:m.End])
		if value == "" {
			continue
		}
		findings.Add(m.EntityType, value)
	}
	return findings, nil
}

// MaskCreditCards replaces every card-number substring with an equal-length
// run of X and returns the spans it masked as matches of the requested card
// types. CREDIT_CARD spans must also pass the Luhn check. Offsets into the
// masked copy equal offsets into text.
func MaskCreditCards(text string, requested []string) (string, []model.EntityMatch) {
	locs := recognizer.FindBounded(creditCardRe, text, true)
	if len(locs) == 0 {
		return text, nil
	}

	wantIN := contains(requested, "IN_CREDIT_CARD")
	wantGeneric := contains(requested, "CREDIT_CARD")

	masked := []byte(text)
	var matches []model.EntityMatch
	for _, loc := range locs {
		for i := loc[0]; i < loc[1]; i++ {
			masked[i] = maskChar
		}

		value := text[loc[0]:loc[1]]
		if wantIN {
			matches = append(matches, cardMatch("IN_CREDIT_CARD", value, loc))
		}
		if wantGeneric && validate.Luhn(value) {
			matches = append(matches, cardMatch("CREDIT_CARD", value, loc))
		}
	}
	return string(masked), matches
}

func cardMatch(entityType, value string, loc [2]int) model.EntityMatch {
	return model.EntityMatch{
		EntityType: entityType,
		Text:       value,
		Start:      loc[0],
		End:        loc[1],
		Score:      creditCardScore,
		Recognizer: "mask",
	}
}
