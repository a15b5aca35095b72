package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"times-table-adventure/internal/domain"
)

func TestRunPlayPerfectSequentialSession(t *testing.T) {
	input := strings.NewReader("2\n4\nsix\n6\n8\n10\n12\n14\n16\n18\n")
	var out bytes.Buffer

	err := runPlay(context.Background(), playOptions{
		mode:    "challenge",
		pattern: "sequential",
		table:   2,
		dbPath:  ":memory:",
		player:  "local",
	}, input, &out)
	if err != nil {
		t.Fatalf("play: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Question 1/9",
		"2 × 9 = ?",
		"Type your answer:",
		"Please type a whole number",
		"Finished! 9/9 correct",
		"Perfect run!",
		"Leaderboard",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Choices:") {
		t.Fatalf("challenge mode should take typed answers, got:\n%s", text)
	}
	if strings.Contains(text, "Review cards") {
		t.Fatalf("perfect run should not schedule reviews")
	}
}

func TestRunPlayPracticeListsChoices(t *testing.T) {
	input := strings.NewReader("2\n4\n6\n8\n10\n12\n14\n16\n18\n")
	var out bytes.Buffer

	err := runPlay(context.Background(), playOptions{
		mode:    "practice",
		pattern: "sequential",
		table:   2,
		dbPath:  ":memory:",
		player:  "local",
	}, input, &out)
	if err != nil {
		t.Fatalf("play: %v", err)
	}

	text := out.String()
	if strings.Count(text, "Choices:") != 9 {
		t.Fatalf("expected choices for every practice question, got:\n%s", text)
	}
	if strings.Contains(text, "Type your answer:") {
		t.Fatalf("practice mode should list choices, got:\n%s", text)
	}
}

func TestRunPlayKeepsLeaderboardAcrossRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "play.db")
	opts := playOptions{mode: "challenge", pattern: "sequential", table: 3, dbPath: db, player: "local"}

	for run := 0; run < 2; run++ {
		// entries are keyed by completion millisecond
		time.Sleep(5 * time.Millisecond)
		var out bytes.Buffer
		answers := strings.NewReader("3\n6\n9\n12\n15\n18\n21\n24\n0\n")
		if err := runPlay(context.Background(), opts, answers, &out); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if run == 1 && strings.Count(out.String(), "8/9") < 3 {
			t.Fatalf("expected summary plus two leaderboard rows, got:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Review 3 x 9 once more") {
			t.Fatalf("expected a review card for the missed question, got:\n%s", out.String())
		}
	}
}

func TestRunPlayQuitEarly(t *testing.T) {
	var out bytes.Buffer
	err := runPlay(context.Background(), playOptions{mode: "practice", pattern: "random", table: 2, dbPath: ":memory:", player: "local"}, strings.NewReader("q\n"), &out)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "Session abandoned.") {
		t.Fatalf("expected abandon message, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Choices:") {
		t.Fatalf("practice mode should list choices")
	}
}

func TestRunPlayValidatesFlags(t *testing.T) {
	var out bytes.Buffer
	base := playOptions{mode: "practice", pattern: "random", table: 2, dbPath: ":memory:", player: "local"}

	bad := base
	bad.table = 10
	if err := runPlay(context.Background(), bad, strings.NewReader(""), &out); !errors.Is(err, domain.ErrInvalidTable) {
		t.Fatalf("expected invalid table, got %v", err)
	}
	bad = base
	bad.mode = "arcade"
	if err := runPlay(context.Background(), bad, strings.NewReader(""), &out); !errors.Is(err, domain.ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	bad = base
	bad.pattern = "zigzag"
	if err := runPlay(context.Background(), bad, strings.NewReader(""), &out); !errors.Is(err, domain.ErrInvalidPattern) {
		t.Fatalf("expected invalid pattern, got %v", err)
	}
}
