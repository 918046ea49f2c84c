package dates

import (
	"testing"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// fixedNow is a Saturday.
var fixedNow = time.Date(2025, 10, 11, 15, 30, 0, 0, time.Local)

func fixedResolver() *Resolver {
	return NewResolverWithClock(func() time.Time { return fixedNow })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestResolveRelative(t *testing.T) {
	r := fixedResolver()

	tests := []struct {
		expr string
		want time.Time
	}{
		{"today", date(2025, 10, 11)},
		{"Today", date(2025, 10, 11)},
		{"yesterday", date(2025, 10, 10)},
		{"今天", date(2025, 10, 11)},
		{"昨天", date(2025, 10, 10)},
		{"前天", date(2025, 10, 9)},
		{"大前天", date(2025, 10, 8)},
		{"3 days ago", date(2025, 10, 8)},
		{"1 day ago", date(2025, 10, 10)},
		{"3天前", date(2025, 10, 8)},
		{"10天前", date(2025, 10, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := r.Resolve(tt.expr)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.expr, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestTodayConsistentWithDaysAgo(t *testing.T) {
	r := fixedResolver()

	today, err := r.Resolve("today")
	if err != nil {
		t.Fatal(err)
	}
	threeAgo, err := r.Resolve("3 days ago")
	if err != nil {
		t.Fatal(err)
	}
	if !threeAgo.AddDate(0, 0, 3).Equal(today) {
		t.Errorf("resolve(3 days ago)+3d = %v, want %v", threeAgo.AddDate(0, 0, 3), today)
	}
}

func TestResolveWeekday(t *testing.T) {
	// fixedNow 2025-10-11 is a Saturday.
	r := fixedResolver()

	tests := []struct {
		expr string
		want time.Time
	}{
		{"this saturday", date(2025, 10, 11)},
		{"this friday", date(2025, 10, 10)},
		{"this monday", date(2025, 10, 6)},
		{"this sunday", date(2025, 10, 5)}, // most recent sunday, walking back
		{"last saturday", date(2025, 10, 4)},
		{"last monday", date(2025, 9, 29)},
		{"本周五", date(2025, 10, 10)},
		{"上周一", date(2025, 9, 29)},
		{"上周日", date(2025, 9, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := r.Resolve(tt.expr)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.expr, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve(%q) = %v (%v), want %v (%v)",
					tt.expr, got.Format("2006-01-02"), got.Weekday(), tt.want.Format("2006-01-02"), tt.want.Weekday())
			}
		})
	}
}

func TestResolveAbsolute(t *testing.T) {
	r := fixedResolver()

	tests := []struct {
		expr string
		want time.Time
	}{
		{"2025-10-10", date(2025, 10, 10)},
		{"2025-1-2", date(2025, 1, 2)},
		{"2024年12月31日", date(2024, 12, 31)},
		{"10月1日", date(2025, 10, 1)},
		// Month after the current month: infer previous year.
		{"12月25日", date(2024, 12, 25)},
		{"2025/9/5", date(2025, 9, 5)},
		{"9/5", date(2025, 9, 5)},
		{"11/5", date(2024, 11, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := r.Resolve(tt.expr)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.expr, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.expr, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	r := fixedResolver()

	exprs := []string{
		"",
		"   ",
		"not a date",
		"2025-13-01", // invalid month
		"2025-02-30", // day does not exist
		"400 days ago",
		"400天前",
		"next monday",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := r.Resolve(expr)
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want InvalidParameter", expr)
			}
			if !errors.IsInvalidParameter(err) {
				t.Errorf("Resolve(%q) error code = %v, want INVALID_PARAMETER", expr, errors.CodeOf(err))
			}
		})
	}
}

func TestAssertNotFuture(t *testing.T) {
	r := fixedResolver()

	if err := r.AssertNotFuture(date(2025, 10, 11)); err != nil {
		t.Errorf("today should not be a future date: %v", err)
	}
	if err := r.AssertNotFuture(date(2025, 10, 12)); err == nil {
		t.Error("tomorrow should fail AssertNotFuture")
	}
}

func TestAssertNotTooOld(t *testing.T) {
	r := fixedResolver()

	if err := r.AssertNotTooOld(date(2025, 1, 1), 365); err != nil {
		t.Errorf("date within window should pass: %v", err)
	}
	if err := r.AssertNotTooOld(date(2023, 1, 1), 365); err == nil {
		t.Error("a two-year-old date should fail the 365-day check")
	}
}

func TestFolderNameRoundTrip(t *testing.T) {
	d := date(2025, 3, 7)
	name := FolderName(d)
	if name != "2025年03月07日" {
		t.Fatalf("FolderName = %q", name)
	}
	back, ok := ParseFolderName(name)
	if !ok || !back.Equal(d) {
		t.Errorf("ParseFolderName(%q) = (%v, %v)", name, back, ok)
	}
	if _, ok := ParseFolderName("not-a-folder"); ok {
		t.Error("ParseFolderName should reject non-folder names")
	}
}
