package timezone

import "time"

// Load resolves a location name as found in config files, an empty
// name means the machine's local time.
func Load(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Clock returns a function reporting the current time in loc.
func Clock(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}
