package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/yuqie6/DevWell/internal/schema"
	"github.com/yuqie6/DevWell/internal/service"
)

// ========== DTOs（与前端契约保持稳定） ==========

type UserDTO struct {
	ID                   int64  `json:"id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

type RepositoryDTO struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	RepoURL         string  `json:"repo_url"`
	LocalPath       string  `json:"local_path"`
	LastAnalyzedAt  int64   `json:"last_analyzed_at"`
	AnalysisStatus  string  `json:"analysis_status"`
	CommitFrequency float64 `json:"commit_frequency"`
	TotalCommits    int     `json:"total_commits"`
	TotalAuthors    int     `json:"total_authors"`
}

type SnapshotDTO struct {
	Date                 string         `json:"date"`
	WellnessScore        float64        `json:"wellness_score"`
	BurnoutRisk          float64        `json:"burnout_risk"`
	RiskLevel            string         `json:"risk_level"`
	WeeklyHours          float64        `json:"weekly_hours"`
	AvgDailyCommits      float64        `json:"avg_daily_commits"`
	ScheduleRegularity   float64        `json:"schedule_regularity"`
	CollaborationScore   float64        `json:"collaboration_score"`
	LateNightCommits     int            `json:"late_night_commits"`
	WeekendCommitRatio   float64        `json:"weekend_commit_ratio"`
	MaxCommitStreakHours float64        `json:"max_commit_streak_hours"`
	AvgSentiment         float64        `json:"avg_sentiment"`
	EntryCount           int            `json:"entry_count"`
	DaysSinceLastJournal int            `json:"days_since_last_journal"`
	Factors              map[string]any `json:"factors"`
}

type AssessmentDTO struct {
	BurnoutRisk   float64                          `json:"burnout_risk"`
	RiskLevel     string                           `json:"risk_level"`
	Factors       map[string]float64               `json:"factors"`
	Interventions []service.InterventionSuggestion `json:"interventions"`
}

type JournalEntryDTO struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	SentimentScore float64 `json:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label"`
	CreatedAt      int64   `json:"created_at"`
}

type SyncResultDTO struct {
	Scanned int `json:"scanned"`
}

type TrainResultDTO struct {
	Samples int `json:"samples"`
}

type createUserRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Timezone             string `json:"timezone"`
	NotificationsEnabled *bool  `json:"notifications_enabled"`
}

type createRepositoryRequest struct {
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RepoURL     string `json:"repo_url"`
	LocalPath   string `json:"local_path"`
}

type createJournalRequest struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type feedbackRequest struct {
	UserID     int64   `json:"user_id"`
	Category   string  `json:"category"`
	Accepted   bool    `json:"accepted"`
	Engagement float64 `json:"engagement"`
}

// ========== routes ==========

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", a.wrapAny(a.users))
	mux.HandleFunc("/api/repositories", a.wrapAny(a.repositories))
	mux.HandleFunc("/api/repositories/sync", a.wrapPOST(a.syncRepository))

	mux.HandleFunc("/api/wellness/analyze", a.wrapPOST(a.analyzeUser))
	mux.HandleFunc("/api/wellness/assess", a.wrapGET(a.assessUser))
	mux.HandleFunc("/api/wellness/snapshots", a.wrapGET(a.listSnapshots))

	mux.HandleFunc("/api/tips/daily", a.wrapGET(a.dailyTips))
	mux.HandleFunc("/api/tips/balance", a.wrapGET(a.balanceTips))
	mux.HandleFunc("/api/tips/recommend", a.wrapGET(a.recommend))
	mux.HandleFunc("/api/feedback", a.wrapPOST(a.recordFeedback))
	mux.HandleFunc("/api/model/train", a.wrapPOST(a.trainModel))

	mux.HandleFunc("/api/journal", a.wrapAny(a.journal))

	mux.HandleFunc("/api/reports/patterns", a.wrapGET(a.commitPatterns))
	mux.HandleFunc("/api/reports/churn", a.wrapGET(a.codeChurn))
	mux.HandleFunc("/api/reports/journal", a.wrapGET(a.journalInsights))
}

func (a *apiServer) wrapGET(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapPOST(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *apiServer) wrapAny(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { fn(w, r) }
}

// ========== handlers ==========

func (a *apiServer) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getUser(w, r)
	case http.MethodPost:
		a.createUser(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username 不能为空")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user := &schema.User{
		Username:             strings.TrimSpace(req.Username),
		Email:                strings.TrimSpace(req.Email),
		Timezone:             req.Timezone,
		NotificationsEnabled: true,
	}
	if req.NotificationsEnabled != nil {
		user.NotificationsEnabled = *req.NotificationsEnabled
	}
	if err := a.core.Repos.User.Create(ctx, user); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (a *apiServer) getUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if username := strings.TrimSpace(r.URL.Query().Get("username")); username != "" {
		user, err := a.core.Repos.User.GetByUsername(ctx, username)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if user == nil {
			writeError(w, http.StatusNotFound, "用户不存在")
			return
		}
		writeJSON(w, http.StatusOK, toUserDTO(user))
		return
	}

	id, err := queryInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.core.Repos.User.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "用户不存在")
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (a *apiServer) repositories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listRepositories(w, r)
	case http.MethodPost:
		a.createRepository(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) createRepository(w http.ResponseWriter, r *http.Request) {
	var req createRepositoryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 || strings.TrimSpace(req.LocalPath) == "" {
		writeError(w, http.StatusBadRequest, "user_id 与 local_path 不能为空")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repo := &schema.Repository{
		UserID:         req.UserID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		RepoURL:        req.RepoURL,
		LocalPath:      strings.TrimSpace(req.LocalPath),
		AnalysisStatus: "pending",
	}
	if err := a.core.Repos.Repository.Create(ctx, repo); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toRepositoryDTO(repo))
}

func (a *apiServer) listRepositories(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	repos, err := a.core.Repos.Repository.ListByUser(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := make([]RepositoryDTO, 0, len(repos))
	for i := range repos {
		result = append(result, *toRepositoryDTO(&repos[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *apiServer) syncRepository(w http.ResponseWriter, r *http.Request) {
	id, err := queryInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// git log 可能很慢，给大仓库留足时间
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	n, err := a.core.Services.Wellness.SyncRepository(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SyncResultDTO{Scanned: n})
}

func (a *apiServer) analyzeUser(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	snap, err := a.core.Services.Wellness.AnalyzeUser(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

func (a *apiServer) assessUser(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	assessment, err := a.core.Services.Wellness.Assess(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &AssessmentDTO{
		BurnoutRisk:   assessment.Score,
		RiskLevel:     string(assessment.Level),
		Factors:       assessment.Factors,
		Interventions: assessment.Interventions,
	})
}

func (a *apiServer) listSnapshots(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	days := queryIntDefault(r, "days", 30)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snaps, err := a.core.Repos.Snapshot.GetRecent(ctx, userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := make([]SnapshotDTO, 0, len(snaps))
	for i := range snaps {
		result = append(result, *toSnapshotDTO(&snaps[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *apiServer) dailyTips(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rc := a.core.Services.Wellness.RecommendContextFor(ctx, userID)
	tips, err := a.core.Services.Recommender.DailyTips(ctx, userID, rc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tips)
}

func (a *apiServer) balanceTips(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	features, err := a.core.Services.Wellness.CommitFeatures(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, service.BalanceTipsFor(features))
}

func (a *apiServer) recommend(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "category 不能为空")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rc := a.core.Services.Wellness.RecommendContextFor(ctx, userID)
	rec, err := a.core.Services.Recommender.Recommend(ctx, userID, category, rc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *apiServer) recordFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 || strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "user_id 与 category 不能为空")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.core.Services.Recommender.RecordFeedback(ctx, req.UserID, req.Category, req.Accepted, req.Engagement); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *apiServer) trainModel(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	n, err := a.core.Services.Trainer.Train(ctx, userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TrainResultDTO{Samples: n})
}

func (a *apiServer) journal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listJournal(w, r)
	case http.MethodPost:
		a.createJournal(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *apiServer) createJournal(w http.ResponseWriter, r *http.Request) {
	var req createJournalRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id 不能为空")
		return
	}

	// 情感打分可能走 LLM
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	entry, err := a.core.Services.Journal.CreateEntry(ctx, req.UserID, req.Title, req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toJournalDTO(entry))
}

func (a *apiServer) listJournal(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := queryIntDefault(r, "limit", 20)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := a.core.Repos.Journal.ListRecent(ctx, userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := make([]JournalEntryDTO, 0, len(entries))
	for i := range entries {
		result = append(result, *toJournalDTO(&entries[i]))
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *apiServer) commitPatterns(w http.ResponseWriter, r *http.Request) {
	repoID, err := queryInt64(r, "repository_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	report, err := a.core.Services.Reports.CommitPatterns(ctx, repoID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *apiServer) codeChurn(w http.ResponseWriter, r *http.Request) {
	repoID, err := queryInt64(r, "repository_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	points, err := a.core.Services.Reports.CodeChurn(ctx, repoID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (a *apiServer) journalInsights(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	insights, err := a.core.Services.Reports.Insights(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// ========== converters ==========

func toUserDTO(u *schema.User) *UserDTO {
	return &UserDTO{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Timezone:             u.Timezone,
		NotificationsEnabled: u.NotificationsEnabled,
	}
}

func toRepositoryDTO(repo *schema.Repository) *RepositoryDTO {
	return &RepositoryDTO{
		ID:              repo.ID,
		UserID:          repo.UserID,
		Name:            repo.Name,
		Description:     repo.Description,
		RepoURL:         repo.RepoURL,
		LocalPath:       repo.LocalPath,
		LastAnalyzedAt:  repo.LastAnalyzedAt,
		AnalysisStatus:  repo.AnalysisStatus,
		CommitFrequency: repo.CommitFrequency,
		TotalCommits:    repo.TotalCommits,
		TotalAuthors:    repo.TotalAuthors,
	}
}

func toSnapshotDTO(s *schema.WellnessSnapshot) *SnapshotDTO {
	return &SnapshotDTO{
		Date:                 s.SnapshotDate,
		WellnessScore:        s.WellnessScore,
		BurnoutRisk:          s.BurnoutRisk,
		RiskLevel:            s.RiskLevel,
		WeeklyHours:          s.WeeklyHours,
		AvgDailyCommits:      s.AvgDailyCommits,
		ScheduleRegularity:   s.ScheduleRegularity,
		CollaborationScore:   s.CollaborationScore,
		LateNightCommits:     s.LateNightCommits,
		WeekendCommitRatio:   s.WeekendCommitRatio,
		MaxCommitStreakHours: s.MaxCommitStreakHours,
		AvgSentiment:         s.AvgSentiment,
		EntryCount:           s.EntryCount,
		DaysSinceLastJournal: s.DaysSinceLastJournal,
		Factors:              s.Factors,
	}
}

func toJournalDTO(e *schema.JournalEntry) *JournalEntryDTO {
	return &JournalEntryDTO{
		ID:             e.ID,
		Title:          e.Title,
		Content:        e.Content,
		SentimentScore: e.SentimentScore,
		SentimentLabel: e.SentimentLabel,
		CreatedAt:      e.CreatedAt.UnixMilli(),
	}
}
