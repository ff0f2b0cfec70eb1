package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

// stubAnalyzer maps video basenames to canned results, errors or panics.
type stubAnalyzer struct {
	family  domain.Family
	results map[string]domain.DetectorResult
	errs    map[string]error
	panics  map[string]bool
}

func (s *stubAnalyzer) Family() domain.Family { return s.family }

func (s *stubAnalyzer) Analyze(ctx context.Context, path string) (domain.DetectorResult, error) {
	name := filepath.Base(path)
	if s.panics[name] {
		panic("model blew up on " + name)
	}
	if err := s.errs[name]; err != nil {
		return domain.DetectorResult{}, err
	}
	if res, ok := s.results[name]; ok {
		return res, nil
	}
	return domain.Failure(domain.ReasonCannotOpenVideo), nil
}

func TestCollectVideos(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mp4")
	touch(t, dir, "a.MOV") // extension match is case-insensitive
	touch(t, dir, "c.avi")
	touch(t, dir, "notes.txt")
	touch(t, dir, "clip.webm")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp4"), 0o755))

	got := CollectVideos(dir)
	want := []string{
		filepath.Join(dir, "a.MOV"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "c.avi"),
	}
	assert.Equal(t, want, got)
}

func TestCollectVideos_MissingDir(t *testing.T) {
	assert.Empty(t, CollectVideos(filepath.Join(t.TempDir(), "nope")))
}

func TestEvaluator_FakeBatchBeforeReal(t *testing.T) {
	fakeDir, realDir := t.TempDir(), t.TempDir()
	touch(t, fakeDir, "f1.mp4")
	touch(t, fakeDir, "f2.mp4")
	touch(t, realDir, "r1.mp4")

	clean := domain.Flagged(nil, nil)
	analyzer := &stubAnalyzer{
		family: domain.FamilyBlink,
		results: map[string]domain.DetectorResult{
			"f1.mp4": clean, "f2.mp4": clean, "r1.mp4": clean,
		},
	}
	ev := NewEvaluator(analyzer, Config{FakeDir: fakeDir, RealDir: realDir}, testLogger())

	verdicts, err := ev.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, verdicts, 3)
	assert.Equal(t, domain.PredictionFake, verdicts[0].GroundTruth)
	assert.Equal(t, domain.PredictionFake, verdicts[1].GroundTruth)
	assert.Equal(t, domain.PredictionReal, verdicts[2].GroundTruth)
	assert.Equal(t, filepath.Join(fakeDir, "f1.mp4"), verdicts[0].VideoPath)
}

func TestEvaluator_IsolatesErrorsAndPanics(t *testing.T) {
	fakeDir, realDir := t.TempDir(), t.TempDir()
	touch(t, fakeDir, "bad.mp4")
	touch(t, fakeDir, "boom.mp4")
	touch(t, fakeDir, "good.mp4")

	analyzer := &stubAnalyzer{
		family: domain.FamilyHeadpose,
		results: map[string]domain.DetectorResult{
			"good.mp4": domain.Flagged(nil, nil),
		},
		errs:   map[string]error{"bad.mp4": fmt.Errorf("connection refused")},
		panics: map[string]bool{"boom.mp4": true},
	}
	ev := NewEvaluator(analyzer, Config{FakeDir: fakeDir, RealDir: realDir}, testLogger())

	verdicts, err := ev.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, verdicts, 3)

	byName := map[string]domain.LabeledVerdict{}
	for _, v := range verdicts {
		byName[filepath.Base(v.VideoPath)] = v
	}

	assert.Contains(t, byName["bad.mp4"].Error, "connection refused")
	assert.Equal(t, domain.PredictionNone, byName["bad.mp4"].Prediction)
	assert.Contains(t, byName["boom.mp4"].Error, "panic")
	assert.Equal(t, domain.PredictionReal, byName["good.mp4"].Prediction)
}

func TestEvaluator_FailedDetectorYieldsNoPrediction(t *testing.T) {
	fakeDir, realDir := t.TempDir(), t.TempDir()
	touch(t, fakeDir, "v.mp4")

	analyzer := &stubAnalyzer{
		family: domain.FamilyBlink,
		results: map[string]domain.DetectorResult{
			"v.mp4": domain.Failure(domain.ReasonNoFacesDetected),
		},
	}
	ev := NewEvaluator(analyzer, Config{FakeDir: fakeDir, RealDir: realDir}, testLogger())

	verdicts, err := ev.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, domain.PredictionNone, verdicts[0].Prediction)
	assert.Zero(t, verdicts[0].Confidence)
	require.NotNil(t, verdicts[0].Detector)
	assert.Equal(t, domain.ReasonNoFacesDetected, verdicts[0].Detector.Reason)
}

func TestEvaluator_ContextCancellation(t *testing.T) {
	fakeDir, realDir := t.TempDir(), t.TempDir()
	touch(t, fakeDir, "v.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := NewEvaluator(&stubAnalyzer{family: domain.FamilyBlink},
		Config{FakeDir: fakeDir, RealDir: realDir}, testLogger())
	verdicts, err := ev.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, verdicts)
}

// Two videos, one suspicious fake and one clean real, score a perfect run.
func TestEvaluator_EndToEndPerfectRun(t *testing.T) {
	fakeDir, realDir := t.TempDir(), t.TempDir()
	touch(t, fakeDir, "deepfake.mp4")
	touch(t, realDir, "genuine.mp4")

	analyzer := &stubAnalyzer{
		family: domain.FamilyBlink,
		results: map[string]domain.DetectorResult{
			"deepfake.mp4": domain.Flagged(
				map[string]float64{"blink_rate_per_minute": 2},
				[]string{"low_blink_rate"}),
			"genuine.mp4": domain.Flagged(
				map[string]float64{"blink_rate_per_minute": 20}, nil),
		},
	}
	ev := NewEvaluator(analyzer, Config{FakeDir: fakeDir, RealDir: realDir}, testLogger())

	verdicts, err := ev.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, verdicts, 2)

	assert.Equal(t, domain.PredictionFake, verdicts[0].Prediction)
	assert.InDelta(t, 0.8, verdicts[0].Confidence, 1e-9)
	assert.Equal(t, domain.PredictionReal, verdicts[1].Prediction)
	assert.InDelta(t, 0.9, verdicts[1].Confidence, 1e-9)

	s := Summarize(verdicts)
	assert.InDelta(t, 100, s.Accuracy, 1e-9)
	assert.Equal(t, domain.ConfusionMatrix{TP: 1, TN: 1}, s.ConfusionMatrix)
	assert.InDelta(t, 100, s.Precision, 1e-9)
	assert.InDelta(t, 100, s.Recall, 1e-9)
	assert.InDelta(t, 100, s.F1Score, 1e-9)
}
