package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"lifetrack/internal/infra/persistence/memory"
	"lifetrack/pkg/domain"
	"lifetrack/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type harness struct {
	t     *testing.T
	home  string
	env   map[string]string
	slots domain.SlotStore
	clock *testutil.Clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		t:     t,
		home:  t.TempDir(),
		env:   map[string]string{},
		slots: memory.NewStore(),
		clock: testutil.Date(2025, time.March, 5),
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	opts := Options{
		Home: h.home,
		Env: func(k string) (string, bool) {
			v, ok := h.env[k]
			return v, ok
		},
		Clock: h.clock,
		Slots: h.slots,
	}
	code := Run(context.Background(), args, &stdout, &stderr, opts)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) ok(args ...string) string {
	h.t.Helper()
	res := h.run(args...)
	if res.code != 0 {
		h.t.Fatalf("%v: exit %d, stderr %q", args, res.code, res.stderr)
	}
	return res.stdout
}

func (h *harness) id(args ...string) string {
	h.t.Helper()
	id := strings.TrimSpace(h.ok(args...))
	if id == "" {
		h.t.Fatalf("%v printed no id", args)
	}
	return id
}

func TestWeeklyCommands(t *testing.T) {
	h := newHarness(t)
	id := h.id("weekly", "add-task", "2025-03-03", "Write report")
	out := h.ok("weekly", "show")
	if !strings.Contains(out, "Week of 2025-03-02") || !strings.Contains(out, "[ ] Write report") {
		t.Fatalf("show before toggle:\n%s", out)
	}
	h.ok("weekly", "toggle-task", "2025-03-03", id)
	out = h.ok("weekly", "show")
	if !strings.Contains(out, "[x] Write report") || !strings.Contains(out, "2025-03-03  1/1") {
		t.Fatalf("show after toggle:\n%s", out)
	}

	h.ok("weekly", "note", "today", "thanks", "1", "sunny morning")
	notes := h.ok("weekly", "notes", "2025-03-05")
	if !strings.Contains(notes, "1. sunny morning") {
		t.Fatalf("notes:\n%s", notes)
	}

	habit := h.id("weekly", "add-habit", "Stretch")
	h.ok("weekly", "toggle-habit", habit, "2025-03-02")
	if out := h.ok("weekly", "show"); !strings.Contains(out, "x......") || !strings.Contains(out, "14%") {
		t.Fatalf("habit row:\n%s", out)
	}
}

func TestWeeklySetupKeepsQuoteUnlessGiven(t *testing.T) {
	h := newHarness(t)
	h.ok("weekly", "setup", "--week-start", "2025-03-03")
	out := h.ok("weekly", "show")
	if !strings.Contains(out, "Week of 2025-03-03") || !strings.Contains(out, domain.DefaultQuote) {
		t.Fatalf("show after setup:\n%s", out)
	}
	h.ok("weekly", "setup", "--quote", "Keep going")
	if out := h.ok("weekly", "show"); !strings.Contains(out, "Keep going") {
		t.Fatalf("quote not replaced:\n%s", out)
	}
}

func TestHabitCommands(t *testing.T) {
	h := newHarness(t)
	id := h.id("habits", "add", "Read", "--emoji", "📖", "--goal", "10")
	h.ok("habits", "toggle", id, "2025-03-03")
	h.ok("habits", "toggle", id, "2025-03-04")
	h.ok("habits", "mood", "2025-03-04", "12")
	h.ok("habits", "motivation", "2025-03-04", "4")

	if got := strings.TrimSpace(h.ok("habits", "streak", id)); got != "2" {
		t.Fatalf("streak = %q", got)
	}
	day := h.ok("habits", "day", "2025-03-04")
	if !strings.Contains(day, "mood: 10  motivation: 4") || !strings.Contains(day, "[x] 📖 Read") {
		t.Fatalf("day:\n%s", day)
	}
	h.ok("habits", "mood", "2025-03-04", "clear")
	if day := h.ok("habits", "day", "2025-03-04"); !strings.Contains(day, "mood: -") {
		t.Fatalf("mood not cleared:\n%s", day)
	}
	if show := h.ok("habits", "show"); !strings.Contains(show, "2/10  20%") {
		t.Fatalf("show:\n%s", show)
	}
	year := h.ok("habits", "year")
	if lines := strings.Split(strings.TrimSpace(year), "\n"); len(lines) != 12 || !strings.HasPrefix(lines[11], "Mar 2025") {
		t.Fatalf("year:\n%s", year)
	}
	h.ok("habits", "prev")
	if show := h.ok("habits", "show"); !strings.HasPrefix(show, "2025-02") {
		t.Fatalf("prev month:\n%s", show)
	}
}

func TestTaskCommands(t *testing.T) {
	h := newHarness(t)
	rent := h.id("tasks", "add", "Pay rent", "--due", "2025-03-01", "--priority", "high")
	h.id("tasks", "add", "Call mum", "--due", "today")
	stats := h.ok("tasks", "stats")
	for _, want := range []string{"total:         2", "due today:     1", "overdue:       1"} {
		if !strings.Contains(stats, want) {
			t.Fatalf("stats missing %q:\n%s", want, stats)
		}
	}
	h.ok("tasks", "update", rent, "--status", "in-progress", "--due", "")
	list := h.ok("tasks", "list")
	if !strings.Contains(list, "in-progress") || !strings.Contains(list, "💪 Health") {
		t.Fatalf("list:\n%s", list)
	}
	if stats := h.ok("tasks", "stats"); !strings.Contains(stats, "overdue:       0") {
		t.Fatalf("clearing due date should clear overdue:\n%s", stats)
	}
	h.ok("tasks", "toggle", rent)
	if stats := h.ok("tasks", "stats"); !strings.Contains(stats, "completed:     1") {
		t.Fatalf("stats after toggle:\n%s", stats)
	}
	cat := h.id("tasks", "add-category", "Garden", "🌱")
	if out := h.ok("tasks", "categories"); !strings.Contains(out, "🌱 Garden") {
		t.Fatalf("categories:\n%s", out)
	}
	h.ok("tasks", "delete-category", cat)
	h.ok("tasks", "delete", rent)
	if list := h.ok("tasks", "list"); strings.Contains(list, "Pay rent") {
		t.Fatalf("task not deleted:\n%s", list)
	}
}

func TestFinanceCommands(t *testing.T) {
	h := newHarness(t)
	h.ok("finance", "starting", "100")
	h.ok("finance", "income", "0", "--source", "Salary", "--plan", "1200", "--actual", "1000")
	h.ok("finance", "expense", "0", "--source", "Food", "--actual", "250.5")
	h.ok("finance", "expense", "1", "--source", "Food", "--actual", "49.5")
	h.ok("finance", "debt", "0", "--source", "Loans", "--debt", "500", "--paid", "100")

	stats := h.ok("finance", "stats")
	for _, want := range []string{"2025-03", "$1,000.00", "$700.00", "$800.00", "$400.00"} {
		if !strings.Contains(stats, want) {
			t.Fatalf("stats missing %q:\n%s", want, stats)
		}
	}
	if out := h.ok("finance", "by-category"); !strings.Contains(out, "$300.00") {
		t.Fatalf("by-category:\n%s", out)
	}

	res := h.run("finance", "expense", "5", "--actual", "1")
	if res.code != 0 {
		t.Fatalf("out-of-range row should be ignored, got exit %d", res.code)
	}
	if show := h.ok("finance", "show"); strings.Count(show, "Food") != 2 {
		t.Fatalf("show:\n%s", show)
	}

	h.ok("finance", "add-category", "expense", "Books")
	if out := h.ok("finance", "categories", "expense"); !strings.Contains(out, "Books") {
		t.Fatalf("categories:\n%s", out)
	}
	h.ok("finance", "next")
	if stats := h.ok("finance", "stats"); !strings.Contains(stats, "2025-04") || strings.Contains(stats, "$1,000.00") {
		t.Fatalf("next month should start empty:\n%s", stats)
	}
}

func TestUsageErrorsExitTwo(t *testing.T) {
	h := newHarness(t)
	cases := [][]string{
		{"habits", "mood", "2025-03-01", "great"},
		{"weekly", "note", "2025-03-01", "ideas", "0", "x"},
		{"finance", "income", "-1"},
		{"finance", "categories", "savings"},
		{"tasks", "reset"},
		{"--metrics", "statsd", "config", "path"},
	}
	for _, args := range cases {
		res := h.run(args...)
		if res.code != 2 || !strings.HasPrefix(res.stderr, "error:") {
			t.Fatalf("%v: exit %d, stderr %q", args, res.code, res.stderr)
		}
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	h.id("tasks", "add", "Keep me")
	h.run("tasks", "reset")
	if list := h.ok("tasks", "list"); !strings.Contains(list, "Keep me") {
		t.Fatalf("unconfirmed reset removed tasks:\n%s", list)
	}
	h.ok("tasks", "reset", "--yes")
	if list := h.ok("tasks", "list"); list != "" {
		t.Fatalf("reset kept tasks:\n%s", list)
	}
}

func TestSaveFailureExitsOne(t *testing.T) {
	h := newHarness(t)
	failing := testutil.NewFailingSlotStore()
	failing.FailSave(true)
	h.slots = failing
	res := h.run("habits", "add", "Run")
	if res.code != 1 || !strings.Contains(res.stderr, testutil.ErrInjected.Error()) {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}
}

func TestMetricsFlag(t *testing.T) {
	h := newHarness(t)
	res := h.run("--metrics", "expvar", "weekly", "add-habit", "Walk")
	if res.code != 0 || !strings.Contains(res.stderr, `"weekly.add_habit"`) {
		t.Fatalf("expvar metrics: exit %d, stderr %q", res.code, res.stderr)
	}
	res = h.run("--metrics", "prometheus", "weekly", "quote", "Onwards")
	if res.code != 0 || !strings.Contains(res.stderr, `lifetrack_store_operations_total{operation="weekly.update_quote",result="success"} 1`) {
		t.Fatalf("prometheus metrics: exit %d, stderr %q", res.code, res.stderr)
	}
}

func TestTraceFlagWritesSpans(t *testing.T) {
	h := newHarness(t)
	res := h.run("--trace", "finance", "next")
	if res.code != 0 || !strings.Contains(res.stderr, `"operation":"finance.next_month"`) {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}
}

func TestConfigShowAppliesEnvironment(t *testing.T) {
	h := newHarness(t)
	h.env["LIFETRACK_CURRENCY"] = "EUR"
	h.env["LIFETRACK_S3_SECRET_ACCESS_KEY"] = "hunter2"
	out := h.ok("config", "show")
	if !strings.Contains(out, "currency: EUR") || strings.Contains(out, "hunter2") {
		t.Fatalf("config show:\n%s", out)
	}
	if path := strings.TrimSpace(h.ok("config", "path")); path != filepath.Join(h.home, ".lifetrack", "config.yaml") {
		t.Fatalf("config path = %q", path)
	}
}

func TestConfigFileSelectsBackend(t *testing.T) {
	h := newHarness(t)
	h.slots = nil
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "storage:\n  driver: sqlite\n  sqlitePath: " + filepath.Join(dir, "slots.db") + "\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	h.id("--config", cfgPath, "tasks", "add", "Survives restarts")
	if list := h.ok("--config", cfgPath, "tasks", "list"); !strings.Contains(list, "Survives restarts") {
		t.Fatalf("task not persisted:\n%s", list)
	}
	if _, err := os.Stat(filepath.Join(dir, "slots.db")); err != nil {
		t.Fatalf("sqlite file: %v", err)
	}
}

func TestMissingExplicitConfigFails(t *testing.T) {
	h := newHarness(t)
	res := h.run("--config", filepath.Join(h.home, "absent.yaml"), "tasks", "list")
	if res.code != 1 || !strings.Contains(res.stderr, "read config") {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}
}
