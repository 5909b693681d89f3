package recognizer

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/validate"
)

// Pattern is one scored regular expression of a recognizer
type Pattern struct {
	Name  string
	Regex string
	Score float64

	// DigitBounded rejects matches touching a digit on either side.
	// Patterns using it must not rely on \b.
	DigitBounded bool

	re *regexp.Regexp
}

// Compile compiles the pattern's regex
func (p *Pattern) Compile() error {
	re, err := regexp.Compile(p.Regex)
	if err != nil {
		return fmt.Errorf("pattern %s: %w", p.Name, err)
	}
	p.re = re
	return nil
}

// Regexp returns the compiled expression, or nil before Compile
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// FindAll returns [start, end) byte offsets of every acceptable match
func (p *Pattern) FindAll(text string) [][2]int {
	if p.re == nil {
		return nil
	}
	return FindBounded(p.re, text, p.DigitBounded)
}

// Recognizer detects one entity type via patterns, with optional context
// keywords and a structural validator
type Recognizer struct {
	Name       string
	EntityType string
	Patterns   []Pattern
	Context    []string
	Validator  validate.Func
}

// Find returns raw matches of every pattern, scored at the pattern's base score
func (r *Recognizer) Find(text string) []model.EntityMatch {
	var matches []model.EntityMatch
	for i := range r.Patterns {
		p := &r.Patterns[i]
		for _, loc := range p.FindAll(text) {
			matches = append(matches, model.EntityMatch{
				EntityType: r.EntityType,
				Text:       text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Score:      p.Score,
				Recognizer: r.Name,
			})
		}
	}
	return matches
}

// FindBounded returns non-overlapping match offsets. With digitBounded set,
// a match adjacent to an ASCII digit is rejected and the scan resumes one
// character after its start.
func FindBounded(re *regexp.Regexp, text string, digitBounded bool) [][2]int {
	if !digitBounded {
		locs := re.FindAllStringIndex(text, -1)
		out := make([][2]int, 0, len(locs))
		for _, loc := range locs {
			out = append(out, [2]int{loc[0], loc[1]})
		}
		return out
	}

	var out [][2]int
	pos := 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && !digitAt(text, start-1) && !digitAt(text, end) {
			out = append(out, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}
	return out
}

func digitAt(text string, i int) bool {
	return i >= 0 && i < len(text) && text[i] >= '0' && text[i] <= '9'
}
