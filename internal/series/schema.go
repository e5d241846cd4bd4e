// Package series pivots per-device readings into regular-grid power and
// energy matrices.
package series

import (
	"sort"

	"github.com/jgoulah/wattcast/pkg/models"
)

// Schema maps device identifiers to fixed column positions. It is built once
// per month selection and shared by every matrix derived from it.
type Schema struct {
	ids   []string
	index map[string]int
}

// NewSchema builds a schema over the distinct ids, sorted
func NewSchema(ids []string) *Schema {
	index := make(map[string]int, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = 0
		unique = append(unique, id)
	}
	sort.Strings(unique)
	for i, id := range unique {
		index[id] = i
	}
	return &Schema{ids: unique, index: index}
}

// Len returns the number of device columns
func (s *Schema) Len() int { return len(s.ids) }

// IDs returns the device ids in column order
func (s *Schema) IDs() []string {
	return append([]string(nil), s.ids...)
}

// ID returns the device id of column i
func (s *Schema) ID(i int) string { return s.ids[i] }

// Index returns the column of a device id
func (s *Schema) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Has reports whether d can be extracted from matrices of this schema.
// The aggregate is always available.
func (s *Schema) Has(d models.Device) bool {
	if d.IsAggregate() {
		return true
	}
	_, ok := s.index[d.ID()]
	return ok
}

// Devices returns the real devices followed by the aggregate
func (s *Schema) Devices() []models.Device {
	out := make([]models.Device, 0, len(s.ids)+1)
	for _, id := range s.ids {
		out = append(out, models.DeviceID(id))
	}
	return append(out, models.AggregateAll)
}
