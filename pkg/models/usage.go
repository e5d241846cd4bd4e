package models

// Source tags whether a row comes from observed data or a forecast
type Source int

const (
	Historical Source = iota
	Forecast
)

// String returns the value written to the "source" column
func (s Source) String() string {
	switch s {
	case Historical:
		return "Historical"
	case Forecast:
		return "Forecast"
	default:
		return "Unknown"
	}
}

// UsageSummary is the energy use and cost of one device over a period
type UsageSummary struct {
	Device Device  `json:"-"`
	KWh    float64 `json:"kwh"`
	Price  float64 `json:"price"`
}

// Column names shared with the presentation layer
const (
	ColumnDevice   = "Device"
	ColumnPower    = "Power (W)"
	ColumnUsage    = "Usage (kWh)"
	ColumnPrice    = "Price (Rp)"
	ColumnDatetime = "Datetime"
	ColumnDate     = "Date"
	ColumnSource   = "source"
)
