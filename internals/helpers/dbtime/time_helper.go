// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"
	_ "time/tzdata" // image tanpa /usr/share/zoneinfo
)

// DefaultTimezone: zona waktu institusi kalau APP_TIMEZONE kosong / salah.
const DefaultTimezone = "Asia/Kolkata"

// LoadLocation:
// 1) name valid → dipakai
// 2) fallback Asia/Kolkata
// 3) fallback terakhir UTC
func LoadLocation(name string) *time.Location {
	if s := strings.TrimSpace(name); s != "" {
		if loc, err := time.LoadLocation(s); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Clock mengembalikan fungsi "sekarang" di timezone institusi, dipakai untuk
// tanggal bayar & jatuh tempo supaya tanggal tidak bergeser saat server di UTC.
func Clock(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}
