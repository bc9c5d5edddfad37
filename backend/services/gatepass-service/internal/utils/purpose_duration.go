package utils

import "strings"

type durationRule struct {
	keywords []string
	duration string
}

// Order matters: the first rule with a matching keyword wins.
var purposeDurations = []durationRule{
	{[]string{"delivery"}, "15 mins"},
	{[]string{"drop", "pickup"}, "10 mins"},
	{[]string{"interview"}, "2 hours"},
	{[]string{"meeting"}, "2 hours"},
	{[]string{"maintenance", "repair"}, "4 hours"},
}

const DefaultVisitDuration = "Standard Visit (4 hrs)"

// DurationForPurpose maps a free-text visit purpose to the expected stay,
// by case-insensitive substring match.
func DurationForPurpose(purpose string) string {
	p := strings.ToLower(purpose)
	for _, rule := range purposeDurations {
		for _, kw := range rule.keywords {
			if strings.Contains(p, kw) {
				return rule.duration
			}
		}
	}
	return DefaultVisitDuration
}
