package service

import (
	"sort"
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
)

// CommitSample 特征聚合的输入：一条提交的时间与作者
type CommitSample struct {
	Timestamp time.Time
	Author    string
}

// CommitFeatureSet 回看窗口内的提交行为特征，计算后不再修改
type CommitFeatureSet struct {
	WeeklyHours          float64 `json:"weekly_hours"`
	AvgDailyCommits      float64 `json:"avg_daily_commits"`
	ScheduleRegularity   float64 `json:"schedule_regularity"`   // [0,1]，1=完全规律
	CollaborationScore   float64 `json:"collaboration_score"`   // [0,1]
	LateNightCommits     int     `json:"late_night_commits"`    // 本地 22 点后或 4 点前
	WeekendCommitRatio   float64 `json:"weekend_commit_ratio"`  // [0,1]
	MaxCommitStreakHours float64 `json:"max_commit_streak_hours"`
}

// CommitSamplesFromSchema 将库内提交转换为聚合输入
func CommitSamplesFromSchema(commits []schema.Commit) []CommitSample {
	samples := make([]CommitSample, 0, len(commits))
	for _, c := range commits {
		samples = append(samples, CommitSample{
			Timestamp: time.UnixMilli(c.Timestamp).Local(),
			Author:    c.Author,
		})
	}
	return samples
}

// ComputeCommitFeatures 聚合提交特征
// 空输入返回全零特征集（注意：不活跃用户会因此被判为"健康"，是已知的假阴性）
func ComputeCommitFeatures(samples []CommitSample, lookbackDays int) CommitFeatureSet {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if len(samples) == 0 {
		return CommitFeatureSet{}
	}

	var features CommitFeatureSet
	total := len(samples)
	features.AvgDailyCommits = float64(total) / float64(lookbackDays)

	// 按自然日分组
	perDay := make(map[string]int)
	// 活跃小时桶 (date, hour)
	activeBuckets := make(map[string]struct{})
	authors := make(map[string]struct{})
	weekend := 0

	for _, s := range samples {
		date := s.Timestamp.Format("2006-01-02")
		perDay[date]++
		bucket := s.Timestamp.Format("2006-01-02T15")
		activeBuckets[bucket] = struct{}{}

		if s.Author != "" {
			authors[s.Author] = struct{}{}
		}

		hour := s.Timestamp.Hour()
		if hour >= 22 || hour < 4 {
			features.LateNightCommits++
		}

		switch s.Timestamp.Weekday() {
		case time.Saturday, time.Sunday:
			weekend++
		}
	}

	features.WeekendCommitRatio = float64(weekend) / float64(total)
	features.WeeklyHours = float64(len(activeBuckets)) / float64(lookbackDays) * 7

	// 规律性：按天提交数的方差归一化
	// 只有一个活跃日时按定义记为 1.0（数据太少，无法区分"规律"与"偶发"）
	if len(perDay) >= 2 {
		mean := float64(total) / float64(len(perDay))
		var variance float64
		for _, c := range perDay {
			d := float64(c) - mean
			variance += d * d
		}
		variance /= float64(len(perDay))

		normalized := variance / 10
		if normalized > 1 {
			normalized = 1
		}
		features.ScheduleRegularity = clamp(1-normalized, 0, 1)
	} else {
		features.ScheduleRegularity = 1.0
	}

	// 协作分：单作者恒为 0
	if len(authors) > 0 {
		features.CollaborationScore = float64(len(authors)-1) / float64(len(authors))
	}

	features.MaxCommitStreakHours = maxStreakHours(samples)

	return features
}

// maxStreakHours 最长连续工作段的墙钟跨度（小时）
// 相邻提交间隔 ≤1 小时视为同一段；跨度取段内首尾时间差，而非真实工作时长
func maxStreakHours(samples []CommitSample) float64 {
	if len(samples) == 0 {
		return 0
	}

	times := make([]time.Time, 0, len(samples))
	for _, s := range samples {
		times = append(times, s.Timestamp)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	const maxGap = time.Hour

	var longest time.Duration
	streakStart := times[0]
	prev := times[0]

	for _, t := range times[1:] {
		if t.Sub(prev) > maxGap {
			if span := prev.Sub(streakStart); span > longest {
				longest = span
			}
			streakStart = t
		}
		prev = t
	}
	if span := prev.Sub(streakStart); span > longest {
		longest = span
	}

	return longest.Hours()
}

// clamp 将数值限制在指定范围内
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
