package achievement_test

import "time"

func fixedDay() time.Time {
	return time.Date(2025, time.June, 14, 9, 30, 0, 0, time.UTC)
}
