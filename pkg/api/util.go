package api

import "time"

func durationFromMS(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
