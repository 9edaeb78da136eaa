package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yuqie6/DevWell/internal/eventbus"
	"github.com/yuqie6/DevWell/internal/ml"
)

// ModelStore 参与度分类器的持有者
// 模型文件缺失或损坏时保持未就绪（fail-open），规则打分照常工作
type ModelStore struct {
	path string
	hub  *eventbus.Hub

	mu     sync.RWMutex
	forest *ml.Forest
}

// NewModelStore 创建模型持有者并尝试加载已有模型，hub 可以为 nil
func NewModelStore(path string, hub *eventbus.Hub) *ModelStore {
	s := &ModelStore{path: path, hub: hub}
	if err := s.reload(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("参与度模型尚未训练，使用纯规则打分", "path", path)
		} else {
			slog.Warn("加载参与度模型失败，使用纯规则打分", "path", path, "error", err)
		}
	}
	return s
}

// Ready 模型是否可用
func (s *ModelStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest != nil
}

// PredictProba 预测接受概率
func (s *ModelStore) PredictProba(features []float64) (float64, error) {
	s.mu.RLock()
	forest := s.forest
	s.mu.RUnlock()
	if forest == nil {
		return 0, ml.ErrNotTrained
	}
	return forest.PredictProba(features)
}

// Replace 替换当前模型并落盘
func (s *ModelStore) Replace(forest *ml.Forest) error {
	if err := forest.Save(s.path); err != nil {
		return err
	}
	s.mu.Lock()
	s.forest = forest
	s.mu.Unlock()
	s.publishReloaded()
	return nil
}

// reload 从磁盘重新加载模型
func (s *ModelStore) reload() error {
	forest, err := ml.Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.forest = forest
	s.mu.Unlock()
	return nil
}

func (s *ModelStore) publishReloaded() {
	if s.hub != nil {
		s.hub.Publish(eventbus.Event{Type: eventbus.TypeModelReloaded, Data: map[string]any{"path": s.path}})
	}
}

// Watch 监听模型文件变更并热加载，阻塞直到 ctx 取消
// 训练器或外部工具替换模型文件后服务无需重启
func (s *ModelStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 监听目录而非文件：原子替换（rename 覆盖）会使文件级 watch 失效
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("模型热加载监听已启动", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				slog.Warn("模型热加载失败", "error", err)
				continue
			}
			slog.Info("参与度模型已热加载", "path", s.path)
			s.publishReloaded()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("模型监听错误", "error", err)
		}
	}
}
