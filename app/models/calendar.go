package models

import "time"

// The calendar nodes below are not safe for concurrent use. The owning blog
// serializes access to them.

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidDate reports whether year/month/day names a real calendar day.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= DaysInMonth(year, month)
}

// DailyBlog holds the entries published on one day, newest first.
type DailyBlog struct {
	Year    int
	Month   int
	Day     int
	entries []*BlogEntry
}

func NewDailyBlog(year, month, day int) *DailyBlog {
	return &DailyBlog{Year: year, Month: month, Day: day}
}

// Date is midnight of the day in loc.
func (d *DailyBlog) Date(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// Before compares calendar position.
func (d *DailyBlog) Before(o *DailyBlog) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Same reports whether both nodes name the same day.
func (d *DailyBlog) Same(o *DailyBlog) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Add inserts e keeping the newest-first order. An entry with the same id is replaced.
func (d *DailyBlog) Add(e *BlogEntry) {
	d.Remove(e.ID)
	i := 0
	for i < len(d.entries) && d.entries[i].Date.After(e.Date) {
		i++
	}
	d.entries = append(d.entries, nil)
	copy(d.entries[i+1:], d.entries[i:])
	d.entries[i] = e
}

// Remove drops the entry with the given id and reports whether it was present.
func (d *DailyBlog) Remove(id string) bool {
	for i, e := range d.entries {
		if e.ID == id {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (d *DailyBlog) Entry(id string) *BlogEntry {
	for _, e := range d.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Entries returns a copy of the day's entries, newest first.
func (d *DailyBlog) Entries() []*BlogEntry {
	return append([]*BlogEntry(nil), d.entries...)
}

func (d *DailyBlog) HasEntries() bool {
	return len(d.entries) > 0
}

// FirstEntry is the newest entry of the day.
func (d *DailyBlog) FirstEntry() *BlogEntry {
	if len(d.entries) == 0 {
		return nil
	}
	return d.entries[0]
}

// LastEntry is the oldest entry of the day.
func (d *DailyBlog) LastEntry() *BlogEntry {
	if len(d.entries) == 0 {
		return nil
	}
	return d.entries[len(d.entries)-1]
}

// PreviousEntry returns the entry published just before e on this day.
func (d *DailyBlog) PreviousEntry(e *BlogEntry) *BlogEntry {
	for i, x := range d.entries {
		if x.ID == e.ID && i+1 < len(d.entries) {
			return d.entries[i+1]
		}
	}
	return nil
}

// NextEntry returns the entry published just after e on this day.
func (d *DailyBlog) NextEntry(e *BlogEntry) *BlogEntry {
	for i, x := range d.entries {
		if x.ID == e.ID && i > 0 {
			return d.entries[i-1]
		}
	}
	return nil
}

// MonthlyBlog holds the days of one month. Days are created on first access.
type MonthlyBlog struct {
	Year   int
	Month  int
	days   []*DailyBlog
	loaded bool
}

func NewMonthlyBlog(year, month int) *MonthlyBlog {
	return &MonthlyBlog{
		Year:  year,
		Month: month,
		days:  make([]*DailyBlog, DaysInMonth(year, month)),
	}
}

// Day returns the node for the given day of the month.
func (m *MonthlyBlog) Day(day int) (*DailyBlog, error) {
	if day < 1 || day > len(m.days) {
		return nil, ErrInvalidDate
	}
	if m.days[day-1] == nil {
		m.days[day-1] = NewDailyBlog(m.Year, m.Month, day)
	}
	return m.days[day-1], nil
}

func (m *MonthlyBlog) LastDay() int {
	return len(m.days)
}

// ActiveDays returns the days holding at least one entry, in calendar order.
func (m *MonthlyBlog) ActiveDays() []*DailyBlog {
	var days []*DailyBlog
	for _, d := range m.days {
		if d != nil && d.HasEntries() {
			days = append(days, d)
		}
	}
	return days
}

// Entries returns every entry in the month, newest first.
func (m *MonthlyBlog) Entries() []*BlogEntry {
	var entries []*BlogEntry
	for i := len(m.days) - 1; i >= 0; i-- {
		if m.days[i] != nil {
			entries = append(entries, m.days[i].entries...)
		}
	}
	return entries
}

func (m *MonthlyBlog) HasEntries() bool {
	for _, d := range m.days {
		if d != nil && d.HasEntries() {
			return true
		}
	}
	return false
}

func (m *MonthlyBlog) Loaded() bool { return m.loaded }
func (m *MonthlyBlog) MarkLoaded()  { m.loaded = true }

// YearlyBlog holds the twelve months of one year.
type YearlyBlog struct {
	Year   int
	months [12]*MonthlyBlog
}

func NewYearlyBlog(year int) *YearlyBlog {
	y := &YearlyBlog{Year: year}
	for i := range y.months {
		y.months[i] = NewMonthlyBlog(year, i+1)
	}
	return y
}

// Month returns the node for month 1..12.
func (y *YearlyBlog) Month(month int) (*MonthlyBlog, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidDate
	}
	return y.months[month-1], nil
}

func (y *YearlyBlog) Months() []*MonthlyBlog {
	return append([]*MonthlyBlog(nil), y.months[:]...)
}
