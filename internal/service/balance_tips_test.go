package service

import "testing"

func TestBalanceTipsHealthy(t *testing.T) {
	features := CommitFeatureSet{
		WeeklyHours:        30,
		AvgDailyCommits:    3,
		ScheduleRegularity: 0.8,
		LateNightCommits:   1,
		WeekendCommitRatio: 0.1,
	}

	tips := BalanceTipsFor(features)
	if len(tips) != 1 {
		t.Fatalf("healthy profile should get exactly one tip, got %d", len(tips))
	}
	if tips[0].Priority != PriorityLow {
		t.Errorf("healthy tip priority = %s, want low", tips[0].Priority)
	}
}

func TestBalanceTipsOverload(t *testing.T) {
	features := CommitFeatureSet{
		WeeklyHours:          60,
		AvgDailyCommits:      8,
		ScheduleRegularity:   0.2,
		LateNightCommits:     10,
		WeekendCommitRatio:   0.5,
		MaxCommitStreakHours: 9,
	}

	tips := BalanceTipsFor(features)
	if len(tips) != 5 {
		t.Fatalf("overloaded profile should trigger all 5 rules, got %d tips", len(tips))
	}
	if tips[0].Priority != PriorityHigh {
		t.Errorf("first tip priority = %s, want high", tips[0].Priority)
	}
}

func TestBalanceTipsRegularityRuleNeedsActivity(t *testing.T) {
	// 规律性为 0 但没有任何提交时不应触发节奏建议
	tips := BalanceTipsFor(CommitFeatureSet{})
	if len(tips) != 1 || tips[0].Priority != PriorityLow {
		t.Errorf("zero activity should get only the keep-up tip, got %+v", tips)
	}
}
