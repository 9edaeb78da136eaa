package eventbus

import (
	"context"
	"sync"
	"time"
)

// 领域事件类型
const (
	TypeAnalysisDone  = "analysis_done"  // 某仓库/用户完成一次分析
	TypeSnapshotSaved = "snapshot_saved" // 健康快照写入
	TypeBurnoutAlert  = "burnout_alert"  // 倦怠风险达到 moderate/high
	TypeDailyTips     = "daily_tips"     // 每日建议已生成
	TypeModelReloaded = "model_reloaded" // 参与度模型热加载
)

// Event 总线事件
type Event struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hub 进程内发布/订阅总线
// 通知投递（邮件等外部通道）由订阅方实现，核心只负责发布事实
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub 创建总线
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish 发布事件
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// 慢消费者直接丢弃，避免阻塞分析链路
		}
	}
}

// Subscribe 订阅事件，ctx 结束时自动退订
func (h *Hub) Subscribe(ctx context.Context, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}
