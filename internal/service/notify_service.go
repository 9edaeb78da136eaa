package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yuqie6/DevWell/internal/eventbus"
)

// NotifyService 每日通知巡检
// 邮件等外发渠道不在进程内实现，巡检只产出事件，由订阅方决定投递方式
type NotifyService struct {
	userRepo    UserStore
	wellness    *WellnessService
	recommender *Recommender
	hub         *eventbus.Hub

	now func() time.Time
}

func NewNotifyService(userRepo UserStore, wellness *WellnessService, recommender *Recommender, hub *eventbus.Hub) *NotifyService {
	return &NotifyService{
		userRepo:    userRepo,
		wellness:    wellness,
		recommender: recommender,
		hub:         hub,
		now:         time.Now,
	}
}

// Sweep 对所有开启通知的用户做一轮巡检，幂等：同一天重复调用不重复投递
func (s *NotifyService) Sweep(ctx context.Context) error {
	users, err := s.userRepo.ListNotifiable(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	today := now.Format("2006-01-02")

	for _, user := range users {
		tipAt := user.LastDailyTipAt
		checkAt := user.LastBurnoutCheckAt

		if !sameDay(tipAt, now) {
			rc := s.wellness.RecommendContextFor(ctx, user.ID)
			tips, err := s.recommender.DailyTips(ctx, user.ID, rc)
			if err != nil {
				slog.Warn("生成每日建议失败", "user_id", user.ID, "error", err)
			} else {
				s.hub.Publish(eventbus.Event{Type: eventbus.TypeDailyTips, Data: map[string]any{
					"user_id": user.ID,
					"date":    today,
					"tips":    tips,
				}})
				tipAt = now.UnixMilli()
			}
		}

		if !sameDay(checkAt, now) {
			snap, err := s.wellness.AnalyzeUser(ctx, user.ID)
			if err != nil {
				slog.Warn("每日健康评估失败", "user_id", user.ID, "error", err)
			} else {
				// 只有中高风险才告警，低风险保持安静
				if snap.RiskLevel != string(RiskLow) {
					s.hub.Publish(eventbus.Event{Type: eventbus.TypeBurnoutAlert, Data: map[string]any{
						"user_id":      user.ID,
						"date":         snap.SnapshotDate,
						"burnout_risk": snap.BurnoutRisk,
						"risk_level":   snap.RiskLevel,
						"summary":      snap.Summary(),
					}})
				}
				checkAt = now.UnixMilli()
			}
		}

		if tipAt != user.LastDailyTipAt || checkAt != user.LastBurnoutCheckAt {
			if err := s.userRepo.UpdateNotifyMarks(ctx, user.ID, tipAt, checkAt); err != nil {
				slog.Warn("更新通知标记失败", "user_id", user.ID, "error", err)
			}
		}
	}

	return nil
}

// sameDay 毫秒时间戳与给定时刻是否同一本地日，0 视为从未
func sameDay(ms int64, now time.Time) bool {
	if ms <= 0 {
		return false
	}
	t := time.UnixMilli(ms).Local()
	return t.Year() == now.Year() && t.YearDay() == now.YearDay()
}
