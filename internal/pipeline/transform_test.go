package pipeline

import (
	"testing"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessor_CountsDropped(t *testing.T) {
	p := NewPreprocessor(domain.Lenient, observability.DiscardLogger())
	fc := domain.FeatureCollection{
		Columns: []string{"ctmed"},
		Features: []domain.Feature{
			{Properties: map[string]string{"ctmed": "10"}},
			{Properties: map[string]string{"ctmed": "X"}},
			{Properties: map[string]string{"ctmed": "L"}},
		},
	}

	out, dropped, err := p.Preprocess(fc, domain.DefaultSelection)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 2, dropped)
}

func TestPreprocessor_StrictPolicy(t *testing.T) {
	p := NewPreprocessor(domain.Strict, observability.DiscardLogger())
	fc := domain.FeatureCollection{
		Source:   "gl_ctmed1105.shp",
		Columns:  []string{"ctmed"},
		Features: []domain.Feature{{Properties: map[string]string{"ctmed": "ten"}}},
	}

	_, _, err := p.Preprocess(fc, domain.DefaultSelection)
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ErrorIs(t, err, domain.ErrMalformedCode)
}
