package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
)

// Preprocessor applies domain.Preprocess under a fixed code policy and logs
// how many polygons the land/unassigned filter dropped.
type Preprocessor struct {
	policy domain.CodePolicy
	logger *slog.Logger
}

// NewPreprocessor creates a Preprocessor for the given code policy.
func NewPreprocessor(policy domain.CodePolicy, logger *slog.Logger) *Preprocessor {
	return &Preprocessor{policy: policy, logger: logger}
}

// Preprocess returns the bucketed collection for sel along with the number of
// features dropped.
func (p *Preprocessor) Preprocess(fc domain.FeatureCollection, sel domain.Selection) (domain.FeatureCollection, int, error) {
	out, err := domain.Preprocess(fc, sel.Mode, sel.Variable, p.policy)
	if err != nil {
		return domain.FeatureCollection{}, 0, err
	}
	dropped := fc.Len() - out.Len()
	p.logger.Debug("preprocessed",
		"source", fc.Source,
		"mode", sel.Mode,
		"variable", sel.Variable,
		"retained", out.Len(),
		"dropped", dropped,
	)
	return out, dropped, nil
}
