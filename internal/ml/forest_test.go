package ml

import (
	"math/rand"
	"path/filepath"
	"testing"
)

// separableSamples 构造线性可分样本：第一维 >0.5 为正类
func separableSamples(n int, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		f := []float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
		label := 0
		if f[0] > 0.5 {
			label = 1
		}
		samples = append(samples, Sample{Features: f, Label: label})
	}
	return samples
}

func TestTrainSeparable(t *testing.T) {
	forest, err := Train(separableSamples(200, 7), DefaultForestConfig())
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	if len(forest.Trees) != 50 {
		t.Fatalf("trees=%d, want 50", len(forest.Trees))
	}

	pHigh, err := forest.PredictProba([]float64{0.9, 0.5, 0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("PredictProba error: %v", err)
	}
	pLow, err := forest.PredictProba([]float64{0.1, 0.5, 0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("PredictProba error: %v", err)
	}

	if pHigh < 0.7 {
		t.Errorf("pHigh=%v, want >= 0.7", pHigh)
	}
	if pLow > 0.3 {
		t.Errorf("pLow=%v, want <= 0.3", pLow)
	}
}

func TestTrainRejectsSingleClass(t *testing.T) {
	samples := []Sample{
		{Features: []float64{0.1, 0.2, 0.3, 0.4, 0.5}, Label: 1},
		{Features: []float64{0.5, 0.4, 0.3, 0.2, 0.1}, Label: 1},
	}
	if _, err := Train(samples, DefaultForestConfig()); err == nil {
		t.Fatal("expected error for single-class samples")
	}
}

func TestTrainRejectsEmpty(t *testing.T) {
	if _, err := Train(nil, DefaultForestConfig()); err == nil {
		t.Fatal("expected error for empty samples")
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	forest, err := Train(separableSamples(50, 3), DefaultForestConfig())
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	if _, err := forest.PredictProba([]float64{0.5}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	forest, err := Train(separableSamples(100, 11), DefaultForestConfig())
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := forest.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	features := []float64{0.8, 0.3, 0.6, 0.2, 0.5}
	want, _ := forest.PredictProba(features)
	got, err := loaded.PredictProba(features)
	if err != nil {
		t.Fatalf("PredictProba error: %v", err)
	}
	if got != want {
		t.Errorf("loaded prediction %v != original %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func TestPredictProbaBounds(t *testing.T) {
	forest, err := Train(separableSamples(100, 5), DefaultForestConfig())
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 50; i++ {
		p, err := forest.PredictProba([]float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()})
		if err != nil {
			t.Fatalf("PredictProba error: %v", err)
		}
		if p < 0 || p > 1 {
			t.Fatalf("probability %v out of [0,1]", p)
		}
	}
}
