package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []float64
		want []float64
	}{
		{"rescales to unit sum", []float64{2, 2}, []float64{0.5, 0.5}},
		{"uneven weights", []float64{3, 1}, []float64{0.75, 0.25}},
		{"all-zero falls back to uniform", []float64{0, 0, 0}, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{"already normalized", []float64{0.6, 0.4}, []float64{0.6, 0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}

			sum := 0.0
			for _, w := range got {
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-6)
		})
	}

	assert.Nil(t, Normalize(nil))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := []float64{2, 2}
	Normalize(raw)
	assert.Equal(t, []float64{2, 2}, raw)
}

func TestUniform(t *testing.T) {
	w := Uniform(4)
	assert.Len(t, w, 4)
	for _, wi := range w {
		assert.InDelta(t, 0.25, wi, 1e-12)
	}

	assert.Nil(t, Uniform(0))
}
