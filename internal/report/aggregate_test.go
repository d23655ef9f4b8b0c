package report

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/andy/focusflow/internal/domain"
)

// Wednesday
var now = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func item(id string, completed time.Time, d time.Duration) domain.HistoryItem {
	return domain.HistoryItem{ID: id, Title: id, CompletedAt: completed, Duration: d}
}

// one hour at noon on each of the last n days, today included
func dailyItems(n int) []domain.HistoryItem {
	var items []domain.HistoryItem
	for i := 0; i < n; i++ {
		noon := StartOfDay(now).AddDate(0, 0, -i).Add(12 * time.Hour)
		items = append(items, item("h", noon, time.Hour))
	}
	return items
}

func sumPoints(s Series) time.Duration {
	var total time.Duration
	for _, p := range s.Points {
		total += p.Total
	}
	return total
}

func TestCalendarHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  time.Time
		want time.Time
	}{
		{"start of day", StartOfDay(now), day(2026, 3, 4)},
		{"start of week midweek", StartOfWeek(now), day(2026, 3, 2)},
		{"start of week sunday", StartOfWeek(day(2026, 3, 8).Add(23 * time.Hour)), day(2026, 3, 2)},
		{"start of week monday", StartOfWeek(day(2026, 3, 9)), day(2026, 3, 9)},
		{"start of month", StartOfMonth(now), day(2026, 3, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestPresetSevenDays(t *testing.T) {
	series := Aggregate(dailyItems(10), Preset{Days: 7}, now)

	if len(series.Points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series.Points))
	}
	for _, p := range series.Points {
		if p.Total != time.Hour {
			t.Errorf("bucket %s: expected 1h, got %v", p.FullLabel, p.Total)
		}
		if p.Granularity != GranularityDay {
			t.Errorf("expected day granularity, got %s", p.Granularity)
		}
	}
	if sumPoints(series) != 7*time.Hour {
		t.Errorf("expected 7h total, got %v", sumPoints(series))
	}
	if series.Max != time.Hour {
		t.Errorf("expected max 1h, got %v", series.Max)
	}
	if !series.Points[0].BucketStart.Equal(day(2026, 2, 26)) {
		t.Errorf("first bucket starts %v", series.Points[0].BucketStart)
	}
	last := series.Points[6]
	if last.Label != "Wed" || last.FullLabel != "Wednesday, March 4, 2026" {
		t.Errorf("unexpected labels %q / %q", last.Label, last.FullLabel)
	}
}

func TestPresetFourteenDays(t *testing.T) {
	series := Aggregate(dailyItems(20), Preset{Days: 14}, now)
	if len(series.Points) != 14 {
		t.Fatalf("expected 14 points, got %d", len(series.Points))
	}
	if sumPoints(series) != 14*time.Hour {
		t.Errorf("expected 14h total, got %v", sumPoints(series))
	}
}

func TestPresetThirtyUsesWeeks(t *testing.T) {
	series := Aggregate(dailyItems(60), Preset{Days: 30}, now)

	if len(series.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(series.Points))
	}
	want := []time.Time{day(2026, 2, 2), day(2026, 2, 9), day(2026, 2, 16), day(2026, 2, 23), day(2026, 3, 2)}
	for i, p := range series.Points {
		if !p.BucketStart.Equal(want[i]) {
			t.Errorf("point %d starts %v, want %v", i, p.BucketStart, want[i])
		}
		if p.Granularity != GranularityWeek {
			t.Errorf("expected week granularity, got %s", p.Granularity)
		}
	}
	// current week only has Monday to Wednesday
	if got := series.Points[4].Total; got != 3*time.Hour {
		t.Errorf("current week total %v, want 3h", got)
	}
	if got := series.Points[0].Total; got != 7*time.Hour {
		t.Errorf("first week total %v, want 7h", got)
	}
	if series.Points[4].Label != "Wk 2" || series.Points[4].FullLabel != "Week: Mar 2 - 8" {
		t.Errorf("unexpected labels %q / %q", series.Points[4].Label, series.Points[4].FullLabel)
	}
}

func TestYearUsesTwelveMonths(t *testing.T) {
	items := []domain.HistoryItem{
		item("old", day(2025, 3, 31), time.Hour),
		item("apr", day(2025, 4, 1), 2*time.Hour),
		item("mar", day(2026, 3, 3), 3*time.Hour),
	}
	series := Aggregate(items, Year{}, now)

	if len(series.Points) != 12 {
		t.Fatalf("expected 12 points, got %d", len(series.Points))
	}
	if series.Points[0].Label != "Apr" || series.Points[11].Label != "Mar" {
		t.Errorf("unexpected labels %q..%q", series.Points[0].Label, series.Points[11].Label)
	}
	if series.Points[0].Total != 2*time.Hour || series.Points[11].Total != 3*time.Hour {
		t.Errorf("unexpected totals %v, %v", series.Points[0].Total, series.Points[11].Total)
	}
	if sumPoints(series) != 5*time.Hour {
		t.Errorf("item outside the year was counted: %v", sumPoints(series))
	}
	if series.Points[11].FullLabel != "March 2026" {
		t.Errorf("unexpected full label %q", series.Points[11].FullLabel)
	}
}

func TestMonthWeeksOverlapBoundaries(t *testing.T) {
	march := Buckets(Month{Focus: day(2026, 3, 15)}, now)
	april := Buckets(Month{Focus: day(2026, 4, 15)}, now)

	if len(march) != 6 {
		t.Fatalf("expected 6 weeks in March 2026, got %d", len(march))
	}
	if !march[0].BucketStart.Equal(day(2026, 2, 23)) {
		t.Errorf("March starts with week %v", march[0].BucketStart)
	}
	if len(april) != 5 {
		t.Fatalf("expected 5 weeks in April 2026, got %d", len(april))
	}

	// the week of Mar 30 belongs to both months
	items := []domain.HistoryItem{item("edge", day(2026, 3, 31).Add(time.Hour), time.Hour)}
	inMarch := Aggregate(items, Month{Focus: day(2026, 3, 1)}, now)
	inApril := Aggregate(items, Month{Focus: day(2026, 4, 1)}, now)
	if inMarch.Points[5].Total != time.Hour || inApril.Points[0].Total != time.Hour {
		t.Errorf("boundary week not counted in both months")
	}
	if inMarch.Points[5].FullLabel != "Week: Mar 30 - Apr 5" {
		t.Errorf("unexpected label %q", inMarch.Points[5].FullLabel)
	}
}

func TestWeekUsesSevenDays(t *testing.T) {
	items := []domain.HistoryItem{
		item("mon", day(2026, 3, 2).Add(8*time.Hour), time.Hour),
		item("sun", day(2026, 3, 8).Add(23*time.Hour), 30*time.Minute),
		item("next", day(2026, 3, 9), time.Hour),
	}
	series := Aggregate(items, Week{Focus: day(2026, 3, 5)}, now)

	if len(series.Points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series.Points))
	}
	if series.Points[0].Label != "Mon" || series.Points[6].Label != "Sun" {
		t.Errorf("unexpected labels %q..%q", series.Points[0].Label, series.Points[6].Label)
	}
	if series.Points[0].Total != time.Hour || series.Points[6].Total != 30*time.Minute {
		t.Errorf("unexpected totals %v, %v", series.Points[0].Total, series.Points[6].Total)
	}
	if sumPoints(series) != 90*time.Minute {
		t.Errorf("unexpected sum %v", sumPoints(series))
	}
}

func TestMaxIsFloored(t *testing.T) {
	series := Aggregate(nil, Preset{Days: 7}, now)
	if series.Max != time.Millisecond {
		t.Fatalf("expected 1ms floor, got %v", series.Max)
	}
	for _, p := range series.Points {
		if p.Total != 0 {
			t.Errorf("expected empty bucket, got %v", p.Total)
		}
	}
}

func TestItemsMatchSeries(t *testing.T) {
	items := dailyItems(40)
	for _, s := range []State{Preset{Days: 7}, Preset{Days: 14}, Preset{Days: 30}, Year{}, Week{Focus: now}} {
		var listed time.Duration
		for _, it := range Items(items, s, now) {
			listed += it.Duration
		}
		if got := sumPoints(Aggregate(items, s, now)); got != listed {
			t.Errorf("%T: chart sums to %v but list sums to %v", s, got, listed)
		}
	}
}

func TestItemsSelectionAndOrder(t *testing.T) {
	items := []domain.HistoryItem{
		item("a", day(2026, 3, 3).Add(9*time.Hour), time.Hour),
		item("b", day(2026, 3, 4).Add(9*time.Hour), time.Hour),
		item("c", day(2026, 3, 4).Add(11*time.Hour), time.Hour),
	}

	all := Items(items, Preset{Days: 7}, now)
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	sel := day(2026, 3, 4)
	picked := Items(items, Preset{Days: 7, Selected: &sel}, now)
	if len(picked) != 2 || picked[0].ID != "c" || picked[1].ID != "b" {
		t.Fatalf("unexpected selection %+v", picked)
	}

	march := Items(append(items, item("feb", day(2026, 2, 28), time.Hour)), Month{Focus: day(2026, 3, 1)}, now)
	if len(march) != 3 {
		t.Errorf("month list should only hold March items, got %d", len(march))
	}
}

func TestBucketsAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	// clocks spring forward on Sunday 8 March 2026
	nyNow := time.Date(2026, 3, 12, 15, 0, 0, 0, ny)

	var daily []domain.HistoryItem
	for i := 0; i < 14; i++ {
		noon := StartOfDay(nyNow).AddDate(0, 0, -i).Add(12 * time.Hour)
		daily = append(daily, item("h", noon, time.Hour))
	}
	series := Aggregate(daily, Preset{Days: 14}, nyNow)
	if len(series.Points) != 14 || sumPoints(series) != 14*time.Hour {
		t.Fatalf("expected 14 one-hour points, got %d totalling %v", len(series.Points), sumPoints(series))
	}
	for _, p := range series.Points {
		if h, m, _ := p.BucketStart.Clock(); h != 0 || m != 0 {
			t.Errorf("bucket %s does not start at local midnight", p.BucketStart)
		}
		if p.Total != time.Hour {
			t.Errorf("bucket %s total %v, want 1h", p.FullLabel, p.Total)
		}
	}

	items := []domain.HistoryItem{
		item("sat", time.Date(2026, 3, 7, 23, 30, 0, 0, ny), time.Hour),
		item("sun", time.Date(2026, 3, 8, 23, 30, 0, 0, ny), time.Hour),
		item("mon", time.Date(2026, 3, 9, 0, 30, 0, 0, ny), time.Hour),
	}
	week := Aggregate(items, Week{Focus: time.Date(2026, 3, 4, 0, 0, 0, 0, ny)}, nyNow)
	if len(week.Points) != 7 {
		t.Fatalf("expected 7 points, got %d", len(week.Points))
	}
	sunday := week.Points[6]
	if sunday.Total != time.Hour || week.Points[5].Total != time.Hour {
		t.Errorf("weekend totals %v, %v; want 1h each", week.Points[5].Total, sunday.Total)
	}
	if !sunday.End().Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, ny)) {
		t.Errorf("short day ends at %s, want Monday midnight", sunday.End())
	}
	if sumPoints(week) != 2*time.Hour {
		t.Errorf("expected Monday's session outside the week, got %v", sumPoints(week))
	}
}
