package trackdata

import (
	"fmt"
	"strings"
	"time"
)

type Activity struct {
	PrimaryIdentifier string `groups:"basic"`

	Name string `groups:"basic"`
	// Date as written by the recorder, usually "2006:01:02"
	Date string `groups:"basic"`

	CreationDateTime time.Time `groups:"detailed"`

	// Storage document id, kept so change events without the identifier can still be resolved
	DocumentID string `json:",omitempty"`
}

var activityDateLayouts = []string{
	"2006:01:02",
	"2006-01-02",
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CalendarDate returns midnight UTC of the day the activity was recorded on
func (a *Activity) CalendarDate() (time.Time, error) {
	date := strings.TrimSpace(a.Date)

	for _, layout := range activityDateLayouts {
		parsed, err := time.Parse(layout, date)
		if err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised activity date %q", a.Date)
}
