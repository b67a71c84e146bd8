package t0

import "log"

// Logf reports tracks skipped while producing T0s. Replace it with SetLogger to redirect
// or mute the reports.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger sets the reporter of skipped tracks. Nil mutes reports.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
