// Package market derives the COMEX gold trading session state. Dashboard and
// chat both read it from here.
package market

import (
	"time"
	_ "time/tzdata"
)

type Status string

const (
	Open   Status = "open"
	Break  Status = "break"
	Closed Status = "closed"
)

// Session boundaries in exchange time: Sunday 18:00 open, Friday 17:00 close,
// daily maintenance 17:00-18:00 Monday to Thursday.
const (
	sessionCloseHour = 17
	sessionOpenHour  = 18
)

var exchangeLocation = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func StatusAt(t time.Time) Status {
	local := t.In(exchangeLocation)
	hour := local.Hour()

	switch local.Weekday() {
	case time.Saturday:
		return Closed
	case time.Sunday:
		if hour >= sessionOpenHour {
			return Open
		}
		return Closed
	case time.Friday:
		if hour >= sessionCloseHour {
			return Closed
		}
		return Open
	default:
		if hour >= sessionCloseHour && hour < sessionOpenHour {
			return Break
		}
		return Open
	}
}

func (s Status) Label() string {
	switch s {
	case Open:
		return "Open (Live Trading)"
	case Break:
		return "Daily Maintenance Break"
	default:
		return "Closed (Weekend)"
	}
}
