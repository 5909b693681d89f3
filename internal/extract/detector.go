package extract

import (
	"context"

	"github.com/ppiankov/piitier/internal/model"
)

// Detector is one detection strategy feeding the merged findings
type Detector interface {
	// Name identifies the strategy in logs
	Name() string

	// Detect returns the findings for the requested entity types
	Detect(ctx context.Context, text string, requested []string) (*model.FindingsMap, error)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
