package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name   string
		dueDay int
		ref    time.Time
		want   time.Time
	}{
		{"upcoming this month", 15, date(2026, time.March, 10), date(2026, time.March, 15)},
		{"same day counts as upcoming", 15, date(2026, time.March, 15), date(2026, time.March, 15)},
		{"already passed rolls to next month", 5, date(2026, time.March, 10), date(2026, time.April, 5)},
		{"day 31 clamps in february", 31, date(2026, time.February, 1), date(2026, time.February, 28)},
		{"day 31 clamps in leap february", 31, date(2028, time.February, 1), date(2028, time.February, 29)},
		{"day 31 rolls from april to may 31", 31, date(2026, time.May, 1), date(2026, time.May, 31)},
		{"clamped occurrence on ref day stays", 31, date(2026, time.February, 28), date(2026, time.February, 28)},
		{"passed day 30 rolls from march to april", 30, date(2026, time.March, 31), date(2026, time.April, 30)},
		{"december rolls into january", 5, date(2026, time.December, 10), date(2027, time.January, 5)},
		{"zero day treated as first", 0, date(2026, time.March, 10), date(2026, time.April, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(tt.dueDay, tt.ref)
			if !got.Equal(tt.want) {
				t.Errorf("NextDueDate(%d, %s) = %s, want %s",
					tt.dueDay, tt.ref.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}
