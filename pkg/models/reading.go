package models

import "time"

// TimestampLayout is the layout of the Timestamp column in reading logs
const TimestampLayout = "2006-01-02 15:04:05"

// Reading is a single electrical sample of one device
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	DeviceID  string    `json:"device_id"`
	Voltage   float64   `json:"voltage"`
	Current   float64   `json:"current"`
}

// PowerW returns the instantaneous power in watts
func (r Reading) PowerW() float64 {
	return r.Voltage * r.Current
}

// MinuteOfDay returns the minute of the day (0-1439) of the sample
func (r Reading) MinuteOfDay() int {
	return MinuteOfDay(r.Timestamp)
}

// MinuteOfDay returns t's minute of the day, used as the model covariate
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
