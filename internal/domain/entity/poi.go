package entity

import "time"

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the location is within Earth bounds.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// OpeningWindow is a single open interval within a day, minutes from
// midnight local time. Windows may cross midnight (Close < Open).
type OpeningWindow struct {
	Weekday  time.Weekday `json:"weekday"`
	OpenMin  int          `json:"open_min"`
	CloseMin int          `json:"close_min"`
}

// OpeningHours is the set of weekly open windows for a POI.
// An empty set means the POI is always open.
type OpeningHours struct {
	Windows []OpeningWindow `json:"windows,omitempty"`
	// Text is the human-readable schedule shown to the user.
	Text string `json:"text,omitempty"`
}

// IsOpen reports whether the POI is open at the given local time.
func (h OpeningHours) IsOpen(t time.Time) bool {
	if len(h.Windows) == 0 {
		return true
	}

	minutes := t.Hour()*60 + t.Minute()
	for _, w := range h.Windows {
		if w.CloseMin >= w.OpenMin {
			if w.Weekday == t.Weekday() && minutes >= w.OpenMin && minutes < w.CloseMin {
				return true
			}

			continue
		}

		// Window crosses midnight: open on its weekday after OpenMin, or on
		// the following weekday before CloseMin.
		if w.Weekday == t.Weekday() && minutes >= w.OpenMin {
			return true
		}
		if (w.Weekday+1)%7 == t.Weekday() && minutes < w.CloseMin {
			return true
		}
	}

	return false
}

// POICandidate is a visitable place under consideration for a route.
// Candidates are owned by the POI store; the engine treats them as
// read-only snapshots for the duration of one request.
type POICandidate struct {
	ID              string
	Name            string
	Location        Location
	Category        string
	Embedding       []float64
	Rating          float64 // 0..5
	AvgVisitMinutes int
	Hours           OpeningHours
	Tags            []string
}
