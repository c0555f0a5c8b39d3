package finance

import "time"

// exchangeLocation resolves the exchange's zone from chart metadata, falling back
// to the fixed gmtoffset if tzdata is missing, and to UTC when neither is set.
func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if gmtOffset != 0 {
		return time.FixedZone(name, gmtOffset)
	}
	return time.UTC
}
