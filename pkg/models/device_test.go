package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDevice(t *testing.T) {
	tests := []struct {
		label string
		want  Device
	}{
		{"", Device{}},
		{"All", AggregateAll},
		{"Fridge", DeviceID("Fridge")},
		{"device:All", DeviceID("All")},
		{"device:Fridge", DeviceID("Fridge")},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			require.Equal(t, tt.want, ParseDevice(tt.label))
		})
	}

	dev := ParseDevice("device:All")
	require.False(t, dev.IsAggregate())
	require.Equal(t, "All", dev.ID())
	require.True(t, ParseDevice("").IsZero())
}
