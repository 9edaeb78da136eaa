package gitscan

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommitRecord 单条提交记录（提交流的最小表示）
type CommitRecord struct {
	Hash         string
	Author       string
	Message      string
	Timestamp    time.Time
	LinesAdded   int
	LinesRemoved int
}

// Scanner 通过本机 git 二进制读取仓库提交历史
type Scanner struct {
	gitBin string
}

// NewScanner 创建扫描器，gitBin 为空时使用 PATH 中的 git
func NewScanner(gitBin string) *Scanner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &Scanner{gitBin: gitBin}
}

const commitMarker = "==COMMIT=="

// Scan 读取 [since, until] 区间内的提交，按时间升序返回
func (s *Scanner) Scan(ctx context.Context, repoPath string, since, until time.Time) ([]CommitRecord, error) {
	args := []string{
		"log",
		"--numstat",
		"--no-merges",
		"--reverse",
		"--pretty=format:" + commitMarker + "%H|%an|%ad|%s",
		"--date=iso-strict",
	}
	if !since.IsZero() {
		args = append(args, fmt.Sprintf("--since=%s", since.Format(time.RFC3339)))
	}
	if !until.IsZero() {
		args = append(args, fmt.Sprintf("--until=%s", until.Format(time.RFC3339)))
	}

	out, err := s.run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}

	return ParseLog(string(out))
}

// run 执行 git 命令并返回 stdout
func (s *Scanner) run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, s.gitBin, fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git 命令在 %q 执行失败: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git 命令执行失败: %w", err)
	}
	return out, nil
}

// ParseLog 解析 git log --numstat 输出
func ParseLog(raw string) ([]CommitRecord, error) {
	var records []CommitRecord
	var cur *CommitRecord

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, commitMarker) {
			if cur != nil {
				records = append(records, *cur)
			}
			rec, err := parseHeader(strings.TrimPrefix(line, commitMarker))
			if err != nil {
				return nil, err
			}
			cur = rec
			continue
		}

		if cur == nil || strings.TrimSpace(line) == "" {
			continue
		}

		// numstat 行: added<TAB>deleted<TAB>path（二进制文件为 "-"）
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		if added, err := strconv.Atoi(parts[0]); err == nil {
			cur.LinesAdded += added
		}
		if deleted, err := strconv.Atoi(parts[1]); err == nil {
			cur.LinesRemoved += deleted
		}
	}

	if cur != nil {
		records = append(records, *cur)
	}

	return records, nil
}

// parseHeader 解析提交头行 "hash|author|date|subject"
func parseHeader(line string) (*CommitRecord, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) < 4 {
		return nil, fmt.Errorf("无法解析提交头行: %q", line)
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("解析提交时间失败: %w", err)
	}

	return &CommitRecord{
		Hash:      strings.TrimSpace(parts[0]),
		Author:    strings.TrimSpace(parts[1]),
		Timestamp: ts,
		Message:   parts[3],
	}, nil
}
