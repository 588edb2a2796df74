package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectOutliersIQR(t *testing.T) {
	// 1000 is far outside Q3 + 1.5*IQR of the tight cluster.
	values := []int{100, 102, 98, 101, 99, 103, 97, 1000}
	outliers := detectOutliers(values)
	assert.Equal(t, []int{1000}, outliers)
}

func TestDetectOutliersNoneInTightCluster(t *testing.T) {
	assert.Empty(t, detectOutliers([]int{10, 11, 12, 13, 14}))
}

func TestDetectOutliersNeedsFourSamples(t *testing.T) {
	assert.Empty(t, detectOutliers([]int{1, 1000, 2}))
}

func TestMeanStdDev(t *testing.T) {
	mean, std := meanStdDev([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 0.001)
	assert.InDelta(t, 2.0, std, 0.001)
}

func TestMeanStdDevDegenerate(t *testing.T) {
	mean, std := meanStdDev(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)

	mean, std = meanStdDev([]int{40})
	assert.InDelta(t, 40.0, mean, 0.001)
	assert.Zero(t, std)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 seconds", FormatDuration(45*TicksPerSecond))
	assert.Equal(t, "5:30", FormatDuration(330*TicksPerSecond))
	assert.Equal(t, "1:23:45", FormatDuration(5025*TicksPerSecond))
	assert.Equal(t, "0 seconds", FormatDuration(3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 200))
	assert.Len(t, truncate(string(make([]byte, 500)), 200), 200)
}
