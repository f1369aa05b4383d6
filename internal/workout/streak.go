package workout

type StreakState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Advance applies one completion change of today. The streak only grows when
// today's percentage crosses from below 100 to 100; dropping back below 100
// leaves both counters untouched. It returns true if the streak grew.
func (s *StreakState) Advance(before, after float64) bool {
	if before >= FullPercentage || after < FullPercentage {
		return false
	}

	s.Current++
	if s.Current > s.Best {
		s.Best = s.Current
	}
	return true
}

type WeeklyEntry struct {
	Day        string  `json:"day"`
	Percentage float64 `json:"percentage"`
}

// WeeklyRecord holds the last known percentage of each week day, Monday first.
type WeeklyRecord []WeeklyEntry

// NewWeeklyRecord returns a record with every day at 0%.
func NewWeeklyRecord() WeeklyRecord {
	record := make(WeeklyRecord, DaysInWeek)
	for day := range record {
		record[day] = WeeklyEntry{
			Day:        DayLabel(day),
			Percentage: 0,
		}
	}
	return record
}

// normalizeWeeklyRecord makes sure a persisted record has exactly seven labelled entries,
// keeping the percentages it carries for the days it has.
func normalizeWeeklyRecord(loaded WeeklyRecord) WeeklyRecord {
	record := NewWeeklyRecord()
	for day := 0; day < DaysInWeek && day < len(loaded); day++ {
		p := loaded[day].Percentage
		if p < 0 {
			p = 0
		} else if p > FullPercentage {
			p = FullPercentage
		}
		record[day].Percentage = p
	}
	return record
}

func (r WeeklyRecord) clone() WeeklyRecord {
	return append(WeeklyRecord{}, r...)
}
