package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, "UTC", LoadLocation("UTC").String())

	// nama salah / kosong → default (atau UTC kalau tzdata tidak ada)
	for _, name := range []string{"", "Mars/Olympus"} {
		got := LoadLocation(name).String()
		assert.Contains(t, []string{DefaultTimezone, "UTC"}, got)
	}
}

func TestClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := Clock(loc)()
	assert.Equal(t, loc, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)

	assert.Equal(t, time.UTC, Clock(nil)().Location())
}
