package sched

// CalendarConfig describes the freelancer's working calendar: which dates
// hold hours and how many.
type CalendarConfig struct {
	// HoursPerDay overrides the daily-hours budget for specific dates.
	HoursPerDay map[Date]float64 `json:"hoursPerDay"`
	// RestDays lists dates with no working hours at all.
	RestDays []Date `json:"restDays"`
	// DefaultHours is the daily budget used when no override exists.
	DefaultHours float64 `json:"defaultHours"`
	// WeekendRest treats Saturdays and Sundays as rest days.
	WeekendRest bool `json:"weekendRest"`
}

// DefaultCalendarConfig returns the standard 8h weekday calendar.
func DefaultCalendarConfig() CalendarConfig {
	return CalendarConfig{
		HoursPerDay:  map[Date]float64{},
		DefaultHours: 8,
		WeekendRest:  true,
	}
}

// IsRestDay reports whether the date is in the explicit rest-day list.
func (c CalendarConfig) IsRestDay(d Date) bool {
	for _, r := range c.RestDays {
		if r == d {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether the date can hold any allocation.
func (c CalendarConfig) IsWorkingDay(d Date) bool {
	if c.IsRestDay(d) {
		return false
	}
	if c.WeekendRest && d.IsWeekend() {
		return false
	}
	return true
}

// DailyCapacity returns the hours available on a date: the per-date override
// if present, else the default, and 0 on non-working days. Never negative.
func (c CalendarConfig) DailyCapacity(d Date) float64 {
	if !c.IsWorkingDay(d) {
		return 0
	}
	hours := c.DefaultHours
	if v, ok := c.HoursPerDay[d]; ok {
		hours = v
	}
	if hours < 0 {
		return 0
	}
	return hours
}

// NextWorkingDay returns the first working day strictly after d. The scan is
// bounded by the allocation horizon; if a full horizon holds no working day
// the input date is returned unchanged.
func (c CalendarConfig) NextWorkingDay(d Date) Date {
	next := d.AddDays(1)
	for i := 0; i < maxHorizonDays; i++ {
		if c.IsWorkingDay(next) {
			return next
		}
		next = next.AddDays(1)
	}
	return d
}

// Clone returns a deep copy so snapshots stay immutable.
func (c CalendarConfig) Clone() CalendarConfig {
	out := c
	out.HoursPerDay = make(map[Date]float64, len(c.HoursPerDay))
	for k, v := range c.HoursPerDay {
		out.HoursPerDay[k] = v
	}
	out.RestDays = append([]Date(nil), c.RestDays...)
	return out
}

// SetRestDay adds or removes a date from the rest-day list.
func (c *CalendarConfig) SetRestDay(d Date, rest bool) {
	if rest {
		if !c.IsRestDay(d) {
			c.RestDays = append(c.RestDays, d)
		}
		return
	}
	kept := c.RestDays[:0]
	for _, r := range c.RestDays {
		if r != d {
			kept = append(kept, r)
		}
	}
	c.RestDays = kept
}

// SetHours sets a per-date hours override. Negative values clear it.
func (c *CalendarConfig) SetHours(d Date, hours float64) {
	if c.HoursPerDay == nil {
		c.HoursPerDay = map[Date]float64{}
	}
	if hours < 0 {
		delete(c.HoursPerDay, d)
		return
	}
	c.HoursPerDay[d] = hours
}
