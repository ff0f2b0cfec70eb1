package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

func TestLandmarks_Deterministic(t *testing.T) {
	p := New()
	ctx := context.Background()

	a, err := p.Landmarks(ctx, []byte("frame-1"))
	require.NoError(t, err)
	b, err := p.Landmarks(ctx, []byte("frame-1"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, provider.MinLandmarks)
}

func TestLandmarks_EmptyFrameMeansNoFace(t *testing.T) {
	p := New()

	pts, err := p.Landmarks(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, pts)
}

func TestLandmarks_EyeContourEncodesEAR(t *testing.T) {
	p := New()

	pts, err := p.Landmarks(context.Background(), []byte("any frame"))
	require.NoError(t, err)

	c := provider.LeftEyeContour
	vertical := dist(pts[c[1]], pts[c[5]]) + dist(pts[c[2]], pts[c[4]])
	horizontal := dist(pts[c[0]], pts[c[3]])
	ear := vertical / (2 * horizontal)

	assert.GreaterOrEqual(t, ear, 0.20)
	assert.LessOrEqual(t, ear, 0.35)
}

func TestScores_InUnitInterval(t *testing.T) {
	p := New()

	scores, err := p.Scores(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.GreaterOrEqual(t, scores[0], 0.0)
	assert.Less(t, scores[0], 1.0)
}

func TestEmotion_KnownLabel(t *testing.T) {
	p := New()

	reading, err := p.Emotion(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Contains(t, emotionLabels, reading.Label)
	assert.GreaterOrEqual(t, reading.Confidence, 40.0)
	assert.LessOrEqual(t, reading.Confidence, 100.0)
}

func dist(a, b provider.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
