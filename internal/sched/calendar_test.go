package sched

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-03-02 ")
	if err != nil || d != monday {
		t.Errorf("expected %s, got %s (%v)", monday, d, err)
	}
	if _, err := ParseDate("02/03/2026"); err == nil {
		t.Error("non-ISO date should be rejected")
	}
	if _, err := ParseDate("2026-13-40"); err == nil {
		t.Error("impossible date should be rejected")
	}
}

func TestDateArithmetic(t *testing.T) {
	if got := monday.AddDays(4); got != friday {
		t.Errorf("monday+4 = %s, want %s", got, friday)
	}
	if got := monday.AddDays(-2); got != "2026-02-28" {
		t.Errorf("monday-2 = %s, want 2026-02-28 (month boundary)", got)
	}
	if got := DaysBetween(monday, friday); got != 4 {
		t.Errorf("DaysBetween(monday, friday) = %d, want 4", got)
	}
	if got := DaysBetween(friday, monday); got != -4 {
		t.Errorf("DaysBetween is signed: got %d, want -4", got)
	}
	if monday.Weekday() != time.Monday {
		t.Errorf("2026-03-02 should be a Monday, got %s", monday.Weekday())
	}
	if !monday.AddDays(5).IsWeekend() || monday.IsWeekend() {
		t.Error("weekend detection wrong")
	}
	if !monday.Before(tuesday) || tuesday.Before(monday) {
		t.Error("Before should be strict date order")
	}
}

func TestDailyCapacity_Precedence(t *testing.T) {
	cal := DefaultCalendarConfig()
	cal.SetHours(monday, 4)
	cal.SetRestDay(tuesday, true)

	if got := cal.DailyCapacity(monday); got != 4 {
		t.Errorf("per-date override wins: got %v, want 4", got)
	}
	if got := cal.DailyCapacity(tuesday); got != 0 {
		t.Errorf("rest day has zero capacity, got %v", got)
	}
	wednesday := monday.AddDays(2)
	if got := cal.DailyCapacity(wednesday); got != 8 {
		t.Errorf("plain day uses the default, got %v", got)
	}
	saturday := monday.AddDays(5)
	if got := cal.DailyCapacity(saturday); got != 0 {
		t.Errorf("rested weekend has zero capacity, got %v", got)
	}
}

func TestDailyCapacity_WeekendWorkedWhenRestOff(t *testing.T) {
	cal := CalendarConfig{DefaultHours: 6}
	saturday := monday.AddDays(5)
	if got := cal.DailyCapacity(saturday); got != 6 {
		t.Errorf("weekend should be workable with WeekendRest off, got %v", got)
	}
}

func TestDailyCapacity_NeverNegative(t *testing.T) {
	cal := DefaultCalendarConfig()
	cal.HoursPerDay = map[Date]float64{monday: -3}
	if got := cal.DailyCapacity(monday); got != 0 {
		t.Errorf("negative override clamps to 0, got %v", got)
	}
}

func TestSetHours_NegativeClearsOverride(t *testing.T) {
	cal := DefaultCalendarConfig()
	cal.SetHours(monday, 4)
	cal.SetHours(monday, -1)
	if got := cal.DailyCapacity(monday); got != 8 {
		t.Errorf("cleared override should fall back to default, got %v", got)
	}
}

func TestNextWorkingDay_SkipsRest(t *testing.T) {
	cal := DefaultCalendarConfig()
	if got := cal.NextWorkingDay(friday); got != friday.AddDays(3) {
		t.Errorf("next working day after Friday is Monday, got %s", got)
	}

	cal.SetRestDay(tuesday, true)
	if got := cal.NextWorkingDay(monday); got != monday.AddDays(2) {
		t.Errorf("next working day should skip the rest Tuesday, got %s", got)
	}
}

func TestNextWorkingDay_SkipsLongRestStretch(t *testing.T) {
	cal := DefaultCalendarConfig()
	for i := 1; i <= 10; i++ {
		cal.SetRestDay(monday.AddDays(i), true)
	}
	// monday+11 is the following Friday, the first non-rested working day.
	if got := cal.NextWorkingDay(monday); got != monday.AddDays(11) {
		t.Errorf("expected the first working day after the rest stretch, got %s", got)
	}
}

func TestCalendarClone_Independent(t *testing.T) {
	cal := DefaultCalendarConfig()
	cal.SetHours(monday, 4)
	cal.SetRestDay(tuesday, true)

	clone := cal.Clone()
	clone.SetHours(monday, 1)
	clone.SetRestDay(tuesday, false)

	if cal.DailyCapacity(monday) != 4 || !cal.IsRestDay(tuesday) {
		t.Error("mutating a clone leaked into the original")
	}
}
