// backend/timezone/timezone.go
package timezone

import (
	"log"
	"time"
	_ "time/tzdata"
)

// DefaultName is the zone creation timestamps are recorded in.
const DefaultName = "Europe/London"

var defaultLocation *time.Location

func init() {
	var err error
	defaultLocation, err = time.LoadLocation(DefaultName)
	if err != nil {
		panic(err)
	}
}

// Default returns the Europe/London location.
func Default() *time.Location {
	return defaultLocation
}

// Load resolves a zone name. An empty name gives the default zone; an
// unknown one falls back to UTC so a typo in config does not stop ingestion.
func Load(name string) *time.Location {
	if name == "" {
		return defaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("WARN timezone: unknown time zone %q (%v), using UTC", name, err)
		return time.UTC
	}
	return loc
}
