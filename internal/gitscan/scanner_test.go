package gitscan

import (
	"testing"
	"time"
)

const sampleLog = `==COMMIT==abc123|alice|2024-03-01T10:30:00+08:00|init project
12	3	main.go
5	0	README.md
==COMMIT==def456|bob|2024-03-02T22:15:00+08:00|fix parser | edge case
7	2	internal/parse.go
-	-	assets/logo.png
==COMMIT==ghi789|alice|2024-03-03T01:00:00+08:00|late night hotfix
1	1	main.go`

func TestParseLog(t *testing.T) {
	records, err := ParseLog(sampleLog)
	if err != nil {
		t.Fatalf("ParseLog error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d, want 3", len(records))
	}

	first := records[0]
	if first.Hash != "abc123" || first.Author != "alice" {
		t.Errorf("first record = %+v", first)
	}
	if first.LinesAdded != 17 || first.LinesRemoved != 3 {
		t.Errorf("first lines = +%d -%d, want +17 -3", first.LinesAdded, first.LinesRemoved)
	}

	// subject 中的 | 不能截断消息
	if records[1].Message != "fix parser | edge case" {
		t.Errorf("message = %q", records[1].Message)
	}
	// 二进制文件行（- -）跳过
	if records[1].LinesAdded != 7 || records[1].LinesRemoved != 2 {
		t.Errorf("second lines = +%d -%d, want +7 -2", records[1].LinesAdded, records[1].LinesRemoved)
	}

	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("", 8*3600))
	if !records[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", records[0].Timestamp, want)
	}
}

func TestParseLogEmpty(t *testing.T) {
	records, err := ParseLog("")
	if err != nil {
		t.Fatalf("ParseLog error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records=%d, want 0", len(records))
	}
}

func TestParseLogBadHeader(t *testing.T) {
	if _, err := ParseLog("==COMMIT==only|two"); err == nil {
		t.Fatal("expected error for malformed header")
	}
}
