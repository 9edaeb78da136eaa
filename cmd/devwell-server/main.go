package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuqie6/DevWell/internal/bootstrap"
	"github.com/yuqie6/DevWell/internal/httpapi"
	"github.com/yuqie6/DevWell/internal/pkg/buildinfo"
	"github.com/yuqie6/DevWell/internal/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 首次运行时生成默认配置，方便用户直接编辑
	ensureDefaultConfig(*cfgFile)

	core, err := bootstrap.NewCore(*cfgFile)
	if err != nil {
		slog.Error("初始化失败", "error", err)
		os.Exit(1)
	}
	defer core.Close()

	slog.Info("DevWell 服务启动",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"db", core.Cfg.Storage.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := httpapi.Start(ctx, core, httpapi.Options{ListenAddr: core.Cfg.Server.ListenAddr})
	if err != nil {
		slog.Error("启动 HTTP 服务失败", "error", err)
		os.Exit(1)
	}

	// 模型文件热加载
	go func() {
		if err := core.Services.Model.Watch(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("模型监听退出", "error", err)
		}
	}()

	// 每日通知巡检
	if core.Cfg.Notify.Enabled {
		go runNotifyLoop(ctx, core)
	}

	<-ctx.Done()
	slog.Info("收到退出信号，正在关停")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// runNotifyLoop 每小时检查一次，到达巡检时刻后执行当日巡检
// Sweep 自身按天幂等，重复触发不会重复投递
func runNotifyLoop(ctx context.Context, core *bootstrap.Core) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	sweep := func() {
		if time.Now().Hour() < core.Cfg.Notify.SweepHour {
			return
		}
		if err := core.Services.Notify.Sweep(ctx); err != nil {
			slog.Warn("通知巡检失败", "error", err)
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

func ensureDefaultConfig(cfgPath string) {
	path := cfgPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := config.WriteFile(path, config.Default()); err != nil {
		slog.Warn("生成默认配置失败", "path", path, "error", err)
		return
	}
	slog.Info("已生成默认配置", "path", path)
}
