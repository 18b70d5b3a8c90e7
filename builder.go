package leadergeo

import (
	"bytes"
	"fmt"
	"net/netip"
	"sort"
)

// GeoSource says where a row's geography comes from: a bucket that is
// already known (manual overrides) or an address that still needs a
// backend lookup (cluster discovery).
type GeoSource struct {
	bucket   GeoBucket
	resolved bool
	addr     netip.Addr
}

// SourceBucket wraps an already-resolved bucket.
func SourceBucket(b GeoBucket) GeoSource {
	return GeoSource{bucket: b, resolved: true}
}

// SourceAddr wraps an address requiring geoip resolution.
func SourceAddr(a netip.Addr) GeoSource {
	return GeoSource{addr: a}
}

func (s GeoSource) String() string {
	if s.resolved {
		return s.bucket.Label()
	}
	return s.addr.String()
}

// InputRow pairs a participant key with its geo source. Rows reach the
// builder already structurally valid; producers (RPC client, override
// parser) skip anything that does not decode.
type InputRow struct {
	Key    PublicKey
	Source GeoSource
}

// SortRows orders rows by key, then by source text. Producers whose
// upstream ordering is not reproducible (a cluster snapshot can come
// back in any order) sort their batch so the built map is byte-identical
// across runs over the same inputs.
func SortRows(rows []InputRow) {
	sort.Slice(rows, func(i, j int) bool {
		if c := bytes.Compare(rows[i].Key[:], rows[j].Key[:]); c != 0 {
			return c < 0
		}
		return rows[i].Source.String() < rows[j].Source.String()
	})
}

// Stats summarizes one generation run.
type Stats struct {
	Total          int
	Mapped         int
	Unknown        int
	UnknownRatePct float64
	OutputBytes    int
}

// GeoMap is the in-memory key to bucket association built by a single
// generation run. Keys are unique; the map is rebuilt from scratch
// every run, never patched in place.
type GeoMap struct {
	buckets map[PublicKey]GeoBucket
}

// NewGeoMap returns an empty map.
func NewGeoMap() *GeoMap {
	return &GeoMap{buckets: make(map[PublicKey]GeoBucket)}
}

// Len returns the number of entries.
func (m *GeoMap) Len() int {
	return len(m.buckets)
}

// Get returns the bucket for a key.
func (m *GeoMap) Get(k PublicKey) (GeoBucket, bool) {
	b, ok := m.buckets[k]
	return b, ok
}

// merge applies the conflict policy for repeated keys: the first
// resolved bucket stays unless it was Unknown and the new one is
// concrete. A concrete bucket is never downgraded, whatever order the
// rows arrive in.
func (m *GeoMap) merge(k PublicKey, b GeoBucket) {
	existing, ok := m.buckets[k]
	if !ok {
		m.buckets[k] = b
		return
	}
	if existing == BucketUnknown && b != BucketUnknown {
		m.buckets[k] = b
	}
}

// SortedKeys returns every key in ascending byte order.
func (m *GeoMap) SortedKeys() []PublicKey {
	keys := make([]PublicKey, 0, len(m.buckets))
	for k := range m.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

// Stats computes generation statistics for the map.
func (m *GeoMap) Stats() Stats {
	s := Stats{Total: len(m.buckets)}
	for _, b := range m.buckets {
		if b == BucketUnknown {
			s.Unknown++
		}
	}
	s.Mapped = s.Total - s.Unknown
	if s.Total > 0 {
		s.UnknownRatePct = float64(s.Unknown) / float64(s.Total) * 100
	}
	s.OutputBytes = s.Total * RecordSize
	return s
}

// BuildGeoMap resolves every row in order and aggregates the results.
// Rows with a known bucket are taken as-is; address rows go through the
// resolver. A resolver failure aborts the whole run: tolerating bad
// input is fine, tolerating a broken backend would silently publish a
// map full of Unknowns.
func BuildGeoMap(rows []InputRow, resolver GeoResolver) (*GeoMap, Stats, error) {
	m := NewGeoMap()
	for _, row := range rows {
		bucket := row.Source.bucket
		if !row.Source.resolved {
			var err error
			bucket, err = resolver.ResolveIP(row.Source.addr)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("resolving %s for key %s: %w", row.Source.addr, row.Key, err)
			}
		}
		m.merge(row.Key, bucket)
	}
	return m, m.Stats(), nil
}
