package seeder

import "time"

// The store keeps timestamps in UTC while clinic hours are defined on the
// local wall clock. The offset is fixed; all conversions go through these
// two functions so the offset arithmetic lives in exactly one place.
const localUTCOffsetHours = 7

var localZone = time.FixedZone("UTC+7", localUTCOffsetHours*3600)

// LocalToStorage converts a local wall-clock time to the storage instant.
func LocalToStorage(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, localZone).UTC()
}

// StorageToLocal converts a storage instant to local wall-clock time.
func StorageToLocal(instant time.Time) time.Time {
	return instant.In(localZone)
}

// InClinicHours reports whether the storage instant falls inside the
// [open, close) local hour window.
func InClinicHours(instant time.Time, openHour, closeHour int) bool {
	h := StorageToLocal(instant).Hour()
	return h >= openHour && h < closeHour
}
