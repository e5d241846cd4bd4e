package usage

import (
	"time"

	"github.com/jgoulah/wattcast/internal/series"
	"github.com/jgoulah/wattcast/pkg/models"
)

// DevicePower is one device's share of the latest sample
type DevicePower struct {
	Device     models.Device
	PowerW     float64
	Percentage float64
}

// LiveSnapshot describes the most recent sample of a month
type LiveSnapshot struct {
	At            time.Time
	CurrentTotal  float64
	PreviousTotal float64
	Devices       []DevicePower
}

// Live returns the latest total power and per-device breakdown. It needs at
// least two rows so a delta can be shown.
func Live(m *series.Minutely) (LiveSnapshot, bool) {
	n := m.Len()
	if n < 2 {
		return LiveSnapshot{}, false
	}

	snap := LiveSnapshot{
		At:            m.Time(n - 1),
		CurrentTotal:  m.Total(n - 1),
		PreviousTotal: m.Total(n - 2),
	}
	schema := m.Schema()
	for col := 0; col < schema.Len(); col++ {
		if !m.Present(n-1, col) {
			continue
		}
		p := DevicePower{Device: models.DeviceID(schema.ID(col)), PowerW: m.Value(n-1, col)}
		if snap.CurrentTotal != 0 {
			p.Percentage = p.PowerW * 100 / snap.CurrentTotal
		}
		snap.Devices = append(snap.Devices, p)
	}
	return snap, true
}
