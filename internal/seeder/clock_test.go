package seeder

import (
	"testing"
	"time"
)

func TestLocalToStorage(t *testing.T) {
	// 10:00 local is 03:00 UTC under the fixed +7 offset.
	local := time.Date(2026, time.March, 2, 10, 0, 0, 0, localZone)
	got := LocalToStorage(local)
	want := time.Date(2026, time.March, 2, 3, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestStorageToLocalRoundTrip(t *testing.T) {
	instant := time.Date(2026, time.March, 2, 3, 15, 0, 0, time.UTC)
	local := StorageToLocal(instant)
	if local.Hour() != 10 || local.Minute() != 15 {
		t.Errorf("Expected 10:15 local, got %02d:%02d", local.Hour(), local.Minute())
	}
	if back := LocalToStorage(local); !back.Equal(instant) {
		t.Errorf("Round trip changed the instant: %v != %v", back, instant)
	}
}

func TestInClinicHours(t *testing.T) {
	cases := []struct {
		localHour int
		want      bool
	}{
		{7, false},
		{8, true},  // opening hour is inclusive
		{14, true},
		{20, true},
		{21, false}, // closing hour is exclusive
		{23, false},
	}

	for _, c := range cases {
		instant := LocalToStorage(time.Date(2026, time.March, 2, c.localHour, 0, 0, 0, localZone))
		if got := InClinicHours(instant, 8, 21); got != c.want {
			t.Errorf("InClinicHours at %02d:00 local = %v, want %v", c.localHour, got, c.want)
		}
	}
}
