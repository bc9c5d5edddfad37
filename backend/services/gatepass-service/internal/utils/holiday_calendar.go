package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
)

// Kenyan public holidays that fall on a Sunday are observed on the Monday.
var sundayToMonday = []cal.AltDay{{Day: time.Sunday, Offset: 1}}

var (
	madarakaDay = &cal.Holiday{
		Name:     "Madaraka Day",
		Type:     cal.ObservancePublic,
		Month:    time.June,
		Day:      1,
		Observed: sundayToMonday,
		Func:     cal.CalcDayOfMonth,
	}
	mashujaaDay = &cal.Holiday{
		Name:     "Mashujaa Day",
		Type:     cal.ObservancePublic,
		Month:    time.October,
		Day:      20,
		Observed: sundayToMonday,
		Func:     cal.CalcDayOfMonth,
	}
	jamhuriDay = &cal.Holiday{
		Name:     "Jamhuri Day",
		Type:     cal.ObservancePublic,
		Month:    time.December,
		Day:      12,
		Observed: sundayToMonday,
		Func:     cal.CalcDayOfMonth,
	}
)

// create once at init
var kePublic = cal.NewBusinessCalendar()

func init() {
	kePublic.AddHoliday(
		aa.NewYear,
		aa.GoodFriday,
		aa.EasterMonday,
		aa.WorkersDay,
		madarakaDay,
		mashujaaDay,
		jamhuriDay,
		aa.ChristmasDay,
		aa.ChristmasDay2,
	)
}

// IsKenyanPublicHoliday reports whether t (in its own location) is a public
// holiday, either on the day itself or on its observed Monday.
func IsKenyanPublicHoliday(t time.Time) bool {
	actual, observed, _ := kePublic.IsHoliday(t)
	return actual || observed
}
