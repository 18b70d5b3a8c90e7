package leadergeo

import (
	"log"
	"sync"
)

// UnknownGeoLabel is reported for leaders without a usable map entry.
const UnknownGeoLabel = "UNKNOWN"

// Route makes the routing decision for a leader identity against a map
// blob. It is pure and never fails: a leader absent from the map, an
// undecodable identity, or a malformed blob all report UnknownGeoLabel
// and take the deterministic hash fallback, so the host embedding this
// call can always answer.
func Route(blob []byte, leader string) (geoLabel string, region Region) {
	label, ok := LookupLabel(blob, leader)
	if !ok {
		label = UnknownGeoLabel
	}
	return label, ChooseRegion(label, leader)
}

// RoutingTable holds a map blob loaded once at startup. The blob is
// never mutated afterwards, so the table may be queried concurrently
// by any number of callers without locking.
type RoutingTable struct {
	blob []byte
}

// LoadRoutingTable reads a map blob from path. A structurally
// malformed blob is loaded anyway, with a warning: lookups against it
// all miss and routing falls back deterministically, which beats
// refusing to serve.
func LoadRoutingTable(path string) (*RoutingTable, error) {
	blob, err := ReadMapFile(path)
	if err != nil {
		return nil, err
	}
	if !ValidBlob(blob) {
		log.Printf("warning: routing map %s is malformed (%d bytes); every lookup will fall back", path, len(blob))
	}
	return &RoutingTable{blob: blob}, nil
}

// NewRoutingTable wraps an in-memory blob the caller promises not to
// mutate.
func NewRoutingTable(blob []byte) *RoutingTable {
	return &RoutingTable{blob: blob}
}

// Route decides geo label and region for a leader identity.
func (t *RoutingTable) Route(leader string) (string, Region) {
	return Route(t.blob, leader)
}

// Records returns the number of records in the table, 0 if the blob is
// malformed.
func (t *RoutingTable) Records() int {
	if !ValidBlob(t.blob) {
		return 0
	}
	return len(t.blob) / RecordSize
}

// Process-wide table, loaded once and treated as immutable until exit.
var (
	defaultTable     *RoutingTable
	defaultTableOnce sync.Once
	defaultTableErr  error
)

// LoadDefaultRoutingTable loads the shared routing table from path on
// first call; subsequent calls return the same table regardless of
// path.
func LoadDefaultRoutingTable(path string) (*RoutingTable, error) {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = LoadRoutingTable(path)
	})
	return defaultTable, defaultTableErr
}
