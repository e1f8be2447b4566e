package registry

import (
	"sort"
	"strings"

	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/status"
)

// SortOrder selects one of the total orderings offered for display.
type SortOrder int

const (
	SortKeyAscending SortOrder = iota
	SortKeyDescending
	SortKindAscending
	SortKindDescending
	SortStatusAscending
	SortStatusDescending
)

// DeviceEntry pairs a registry key with its record for sorting and display.
type DeviceEntry struct {
	Key    models.DeviceKey
	Record *models.DeviceRecord
}

// Comparator returns the three-way compare function for the given order.
// Each descending order is the literal negation of its ascending
// counterpart, fallback rules included. Kind ordering ties break on the
// key by construction of the sort key.
func Comparator(order SortOrder) func(a, b DeviceEntry) int {
	switch order {
	case SortKeyDescending:
		return func(a, b DeviceEntry) int { return -compareKeys(a, b) }
	case SortKindAscending:
		return compareKinds
	case SortKindDescending:
		return func(a, b DeviceEntry) int { return -compareKinds(a, b) }
	case SortStatusAscending:
		return compareStatus
	case SortStatusDescending:
		return func(a, b DeviceEntry) int { return -compareStatus(a, b) }
	case SortKeyAscending:
		fallthrough
	default:
		return compareKeys
	}
}

func compareKeys(a, b DeviceEntry) int {
	return strings.Compare(a.Key.String(), b.Key.String())
}

func compareKinds(a, b DeviceEntry) int {
	return strings.Compare(kindSortKey(a), kindSortKey(b))
}

func kindSortKey(e DeviceEntry) string {
	kind := ""
	if e.Record != nil {
		kind = e.Record.Kind
	}

	return kind + e.Key.String()
}

func compareStatus(a, b DeviceEntry) int {
	var codeA, codeB int
	if a.Record != nil {
		codeA = status.Code(a.Record.ProtocolStates)
	}
	if b.Record != nil {
		codeB = status.Code(b.Record.ProtocolStates)
	}

	switch {
	case codeA < codeB:
		return -1
	case codeA > codeB:
		return 1
	default:
		return 0
	}
}

// ListDevices returns a point-in-time copy of the device table sorted by
// the requested order. Entries with equal sort keys keep ascending key
// order, so every ordering is deterministic.
func (r *Registry) ListDevices(order SortOrder) []DeviceEntry {
	r.mu.RLock()
	entries := make([]DeviceEntry, 0, len(r.devices))
	for key, record := range r.devices {
		entries = append(entries, DeviceEntry{Key: key, Record: cloneDeviceRecord(record)})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return compareKeys(entries[i], entries[j]) < 0
	})

	if order != SortKeyAscending {
		cmp := Comparator(order)
		sort.SliceStable(entries, func(i, j int) bool {
			return cmp(entries[i], entries[j]) < 0
		})
	}

	return entries
}
