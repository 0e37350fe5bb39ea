package evidence

import (
	"errors"
	"fmt"
	"math"

	"github.com/thebtf/facetscope/pkg/models"
)

// Validation errors.
var (
	ErrUnknownFacet    = errors.New("unknown facet")
	ErrUnknownDomain   = errors.New("unknown domain")
	ErrScoreRange      = errors.New("score out of range")
	ErrConfidenceRange = errors.New("confidence out of range")
)

// Rejected is an evidence item that failed validation.
type Rejected struct {
	Item models.EvidenceInput
	Err  error
}

// Check returns nil if e is a well-formed evidence tuple.
func Check(e models.EvidenceInput) error {
	switch {
	case !e.Facet.IsValid():
		return fmt.Errorf("%w: %q", ErrUnknownFacet, e.Facet)
	case !e.Domain.IsValid():
		return fmt.Errorf("%w: %q", ErrUnknownDomain, e.Domain)
	case math.IsNaN(e.Score) || e.Score < models.MinScore || e.Score > models.MaxScore:
		return fmt.Errorf("%w: %g", ErrScoreRange, e.Score)
	case math.IsNaN(e.Confidence) || e.Confidence < 0 || e.Confidence > 1:
		return fmt.Errorf("%w: %g", ErrConfidenceRange, e.Confidence)
	}
	return nil
}

// Validate splits items into well-formed tuples and rejected ones, preserving order.
func Validate(items []models.EvidenceInput) (valid []models.EvidenceInput, rejected []Rejected) {
	valid = make([]models.EvidenceInput, 0, len(items))
	for _, e := range items {
		if err := Check(e); err != nil {
			rejected = append(rejected, Rejected{Item: e, Err: err})
			continue
		}
		valid = append(valid, e)
	}
	return valid, rejected
}
