package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStats(t *testing.T) {
	assert.Equal(t, Stats{}, NewStats(nil))

	stats := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, stats.Mean)
	assert.Equal(t, 2.0, stats.Min)
	assert.Equal(t, 9.0, stats.Max)
	assert.InDelta(t, 2.0, stats.StdDeviation, 1e-9)
}

func TestNewDistributionStats(t *testing.T) {
	// perfectly even spread
	even := NewDistributionStats([]float64{10, 10, 10})
	assert.Equal(t, 1.0, even.DistributionQuality)

	// skewed spread scores lower
	skewed := NewDistributionStats([]float64{1, 1, 100})
	assert.Less(t, skewed.DistributionQuality, even.DistributionQuality)
}

func TestSizeHistogram(t *testing.T) {
	h := NewSizeHistogram()
	assert.Zero(t, h.GetCount())
	assert.Zero(t, h.AverageSize())
	assert.Zero(t, h.MedianEstimate())

	for i := 0; i < 100; i++ {
		h.AddSample(100)
	}

	assert.Equal(t, int64(100), h.GetCount())
	assert.Equal(t, 100, h.AverageSize())
	// all samples land in the (64, 128] bucket
	assert.Equal(t, (64+128)/2, h.MedianEstimate())
	assert.Positive(t, h.WeightedEstimate())

	boundaries, percentages := h.SizeDistribution()
	assert.Len(t, percentages, len(boundaries)+1)

	h.Reset()
	assert.Zero(t, h.GetCount())
}
