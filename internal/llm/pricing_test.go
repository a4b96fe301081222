package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gemini-2.5-flash", &ModelCost{0.3, 2.5}},
		{"gemini-2.5-flash-lite-preview-09-2025", &ModelCost{0.1, 0.4}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"gpt-4o-2024-08-06", &ModelCost{2.5, 10}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"claude-opus-4-5-20251101", &ModelCost{5, 25}},
		{"google/gemini-2.5-flash", &ModelCost{0.3, 2.5}},
		{"mock", nil},
		{"llama-3-8b", nil},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := LookupCost(tt.model)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.3, OutputPerMTok: 2.5}
	assert.InDelta(t, 0.3+2.5, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, 0.00055, c.Cost(1000, 100), 1e-9)
}
