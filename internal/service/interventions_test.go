package service

import "testing"

func TestInterventionsForLevels(t *testing.T) {
	cases := []struct {
		level     RiskLevel
		wantCount int
		wantFirst string
	}{
		{RiskHigh, 3, "immediate_break"},
		{RiskModerate, 2, "schedule_breaks"},
		{RiskLow, 2, "maintain_habits"},
	}

	for _, tc := range cases {
		got := InterventionsFor(tc.level)
		if len(got) != tc.wantCount {
			t.Errorf("level %s: got %d interventions, want %d", tc.level, len(got), tc.wantCount)
			continue
		}
		if got[0].Type != tc.wantFirst {
			t.Errorf("level %s: first intervention = %s, want %s", tc.level, got[0].Type, tc.wantFirst)
		}
	}
}

func TestHighRiskCarriesCritical(t *testing.T) {
	got := InterventionsFor(RiskHigh)
	if got[0].Priority != PriorityCritical {
		t.Errorf("high risk first intervention priority = %s, want critical", got[0].Priority)
	}
}

func TestUnknownLevelFallsBackToLow(t *testing.T) {
	got := InterventionsFor(RiskLevel("weird"))
	if len(got) == 0 || got[0].Type != "maintain_habits" {
		t.Errorf("unknown level should fall back to low-risk suggestions, got %+v", got)
	}
}
