package output

import "time"

// nowFunc stamps reports and their file names.
var nowFunc = time.Now

// SetNowFunc overrides the report clock (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }
