package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuqie6/DevWell/internal/bootstrap"
	"github.com/yuqie6/DevWell/internal/schema"
	"github.com/yuqie6/DevWell/internal/service"
)

var (
	cfgFile string
	core    *bootstrap.Core
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devwell",
		Short: "DevWell - 开发者健康守护工具",
		Long:  `DevWell 从 git 提交节奏和开发日志情感中评估倦怠风险，给出可执行的健康建议。`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			core, err = bootstrap.NewCore(cfgFile)
			if err != nil {
				slog.Error("初始化失败", "error", err)
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if core != nil {
				_ = core.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(repoCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(tipsCmd())
	rootCmd.AddCommand(journalCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(feedbackCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// userCmd 用户管理
func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "用户管理",
	}

	var email string
	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "创建用户",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			user := &schema.User{Username: args[0], Email: email, NotificationsEnabled: true}
			if err := core.Repos.User.Create(ctx, user); err != nil {
				fmt.Printf("❌ 创建用户失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 用户已创建: %s (id=%d)\n", user.Username, user.ID)
		},
	}
	addCmd.Flags().StringVar(&email, "email", "", "邮箱（用于通知）")
	cmd.AddCommand(addCmd)

	return cmd
}

// repoCmd 仓库管理
func repoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "git 仓库管理",
	}

	var userID int64
	var name string
	addCmd := &cobra.Command{
		Use:   "add <local-path>",
		Short: "接入本地仓库",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			repo := &schema.Repository{
				UserID:         userID,
				Name:           name,
				LocalPath:      args[0],
				AnalysisStatus: "pending",
			}
			if err := core.Repos.Repository.Create(ctx, repo); err != nil {
				fmt.Printf("❌ 接入仓库失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 仓库已接入: %s (id=%d)\n", repo.LocalPath, repo.ID)
		},
	}
	addCmd.Flags().Int64Var(&userID, "user", 1, "所属用户 ID")
	addCmd.Flags().StringVar(&name, "name", "", "仓库名称")
	cmd.AddCommand(addCmd)

	syncCmd := &cobra.Command{
		Use:   "sync <repo-id>",
		Short: "扫描仓库提交记录",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			id, err := parseID(args[0])
			if err != nil {
				fmt.Printf("❌ 无效的仓库 ID: %v\n", err)
				os.Exit(1)
			}
			n, err := core.Services.Wellness.SyncRepository(ctx, id)
			if err != nil {
				fmt.Printf("❌ 同步失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 已扫描 %d 条提交\n", n)
		},
	}
	cmd.AddCommand(syncCmd)

	return cmd
}

// analyzeCmd 健康评估
func analyzeCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "评估倦怠风险并保存当日快照",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			snap, err := core.Services.Wellness.AnalyzeUser(ctx, userID)
			if err != nil {
				fmt.Printf("❌ 评估失败: %v\n", err)
				os.Exit(1)
			}
			printSnapshot(snap)
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "用户 ID")
	return cmd
}

// tipsCmd 建议
func tipsCmd() *cobra.Command {
	var userID int64
	var balance bool
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "查看每日建议",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if balance {
				features, err := core.Services.Wellness.CommitFeatures(ctx, userID)
				if err != nil {
					fmt.Printf("❌ 读取提交特征失败: %v\n", err)
					os.Exit(1)
				}
				fmt.Println("⚖️  工作生活平衡建议")
				for _, tip := range service.BalanceTipsFor(features) {
					fmt.Printf("  [%s] %s\n      %s\n", tip.Priority, tip.Title, tip.Description)
				}
				return
			}

			rc := core.Services.Wellness.RecommendContextFor(ctx, userID)
			tips, err := core.Services.Recommender.DailyTips(ctx, userID, rc)
			if err != nil {
				fmt.Printf("❌ 生成建议失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("💡 今日建议")
			for _, tip := range tips {
				fmt.Printf("  [%s/%s] %s\n", tip.Category, tip.Priority, tip.Text)
			}
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "用户 ID")
	cmd.Flags().BoolVar(&balance, "balance", false, "显示工作生活平衡建议")
	return cmd
}

// journalCmd 开发日志
func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "开发日志",
	}

	var userID int64
	var title string
	addCmd := &cobra.Command{
		Use:   "add <content>",
		Short: "写一条日志（自动情感打分）",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			entry, err := core.Services.Journal.CreateEntry(ctx, userID, title, args[0])
			if err != nil {
				fmt.Printf("❌ 写入日志失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 日志已保存 (情感: %s %.2f)\n", entry.SentimentLabel, entry.SentimentScore)
		},
	}
	addCmd.Flags().Int64Var(&userID, "user", 1, "用户 ID")
	addCmd.Flags().StringVar(&title, "title", "", "日志标题")
	cmd.AddCommand(addCmd)

	return cmd
}

// reportCmd 报表
func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "查看提交与日志报表",
	}

	var repoID int64
	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "提交时间分布",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			report, err := core.Services.Reports.CommitPatterns(ctx, repoID)
			if err != nil {
				fmt.Printf("❌ 生成报表失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("📊 提交分布 (共 %d 次 / %d 位作者)\n", report.TotalCommits, report.TotalAuthors)
			if report.TotalCommits > 0 {
				fmt.Printf("  • 最活跃时段: %d:00\n", report.MostActiveHour)
				fmt.Printf("  • 最活跃的一天: %s\n", report.MostActiveDay)
			}
			fmt.Printf("  • 深夜提交: %d 次\n", report.LateNightCommits)
			fmt.Printf("  • 周末提交: %d 次\n", report.WeekendCommits)
		},
	}
	patternsCmd.Flags().Int64Var(&repoID, "repo", 1, "仓库 ID")
	cmd.AddCommand(patternsCmd)

	var userID int64
	insightsCmd := &cobra.Command{
		Use:   "journal",
		Short: "日志情感汇总",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			insights, err := core.Services.Reports.Insights(ctx, userID)
			if err != nil {
				fmt.Printf("❌ 生成报表失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("📔 日志洞察 (共 %d 条)\n", insights.EntryCount)
			fmt.Printf("  • 平均情感: %.2f\n", insights.AvgSentiment)
			fmt.Printf("  • 积极 %d / 中性 %d / 消极 %d\n",
				insights.PositiveCount, insights.NeutralCount, insights.NegativeCount)
		},
	}
	insightsCmd.Flags().Int64Var(&userID, "user", 1, "用户 ID")
	cmd.AddCommand(insightsCmd)

	return cmd
}

// trainCmd 训练参与度模型
func trainCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "train",
		Short: "用累计反馈训练参与度模型",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			n, err := core.Services.Trainer.Train(ctx, userID)
			if err != nil {
				fmt.Printf("❌ 训练失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 模型训练完成，使用 %d 条反馈样本\n", n)
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "用户 ID")
	return cmd
}

// feedbackCmd 对建议打反馈
func feedbackCmd() *cobra.Command {
	var userID int64
	var rejectFlag bool
	var engagement float64
	cmd := &cobra.Command{
		Use:   "feedback <category>",
		Short: "记录对某类建议的反馈",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			accepted := !rejectFlag
			if err := core.Services.Recommender.RecordFeedback(ctx, userID, args[0], accepted, engagement); err != nil {
				fmt.Printf("❌ 记录反馈失败: %v\n", err)
				os.Exit(1)
			}
			if accepted {
				fmt.Println("✅ 已记录接受反馈")
			} else {
				fmt.Println("✅ 已记录拒绝反馈")
			}
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "用户 ID")
	cmd.Flags().BoolVar(&rejectFlag, "reject", false, "标记为拒绝")
	cmd.Flags().Float64Var(&engagement, "engagement", 1.0, "参与程度 [0,1]")
	return cmd
}

func printSnapshot(snap *schema.WellnessSnapshot) {
	fmt.Printf("📅 %s 健康快照\n", snap.SnapshotDate)
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("  • 健康分: %.2f\n", snap.WellnessScore)
	fmt.Printf("  • 倦怠风险: %.2f (%s)\n", snap.BurnoutRisk, snap.RiskLevel)
	fmt.Printf("  • 周编码时长: %.1f 小时\n", snap.WeeklyHours)
	fmt.Printf("  • 日均提交: %.1f 次\n", snap.AvgDailyCommits)
	fmt.Printf("  • 作息规律性: %.2f\n", snap.ScheduleRegularity)
	fmt.Printf("  • 深夜提交: %d 次\n", snap.LateNightCommits)
	if snap.DaysSinceLastJournal < service.NeverJournaled {
		fmt.Printf("  • 距上次日志: %d 天\n", snap.DaysSinceLastJournal)
	} else {
		fmt.Println("  • 还没有写过日志，试试 devwell journal add")
	}
	fmt.Println("═══════════════════════════════════════")
}

func parseID(s string) (int64, error) {
	var id int64
	_, err := fmt.Sscanf(s, "%d", &id)
	return id, err
}
