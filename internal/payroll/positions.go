package payroll

import (
	"fmt"
	"sort"

	"github.com/UnknownOlympus/tyche/internal/apperr"
)

// positionHours maps a job title to its contracted weekly hours.
var positionHours = map[string]int{
	"CHEF":       56,
	"HEADCHEF":   42,
	"MANAGER":    56,
	"SUPERVISOR": 56,
	"CATERING":   49,
	"WAITER":     35,
	"CLEANER":    14,
}

// WeeklyHours returns the contracted weekly hours for a job title. Titles are
// matched exactly.
func WeeklyHours(jobTitle string) (int, error) {
	hours, ok := positionHours[jobTitle]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperr.ErrUnknownJobTitle, jobTitle)
	}
	return hours, nil
}

// Positions returns every known job title in alphabetical order.
func Positions() []string {
	titles := make([]string, 0, len(positionHours))
	for title := range positionHours {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
