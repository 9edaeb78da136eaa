package ai

import (
	"context"
	"testing"
)

func TestLexiconScore(t *testing.T) {
	cases := []struct {
		name string
		text string
		sign int // -1 负面, 0 中性, 1 正面
	}{
		{"positive", "shipped the feature, feeling great and productive", 1},
		{"negative", "exhausted and stressed, stuck on a broken build", -1},
		{"neutral", "wrote some code today", 0},
		{"empty", "", 0},
		{"mixed leaning negative", "fixed one bug but still exhausted and frustrated", -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := LexiconScore(tc.text)
			if score < -1 || score > 1 {
				t.Fatalf("score %v out of [-1,1]", score)
			}
			switch tc.sign {
			case 1:
				if score <= 0 {
					t.Errorf("score=%v, want positive", score)
				}
			case -1:
				if score >= 0 {
					t.Errorf("score=%v, want negative", score)
				}
			case 0:
				if score != 0 {
					t.Errorf("score=%v, want 0", score)
				}
			}
		})
	}
}

func TestLabelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.5, "positive"},
		{0.21, "positive"},
		{0.2, "neutral"},
		{0, "neutral"},
		{-0.2, "neutral"},
		{-0.21, "negative"},
		{-0.9, "negative"},
	}
	for _, tc := range cases {
		if got := LabelFor(tc.score); got != tc.want {
			t.Errorf("LabelFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestAnalyzeWithoutClient(t *testing.T) {
	a := NewSentimentAnalyzer(nil)
	res := a.Analyze(context.Background(), "great progress, shipped and happy")
	if res.ModelScore != nil {
		t.Fatal("model score should be nil without a configured client")
	}
	if res.Score != res.LexiconScore {
		t.Fatalf("score=%v lexicon=%v, want equal", res.Score, res.LexiconScore)
	}
	if res.Label != "positive" {
		t.Fatalf("label=%q, want positive", res.Label)
	}
}
