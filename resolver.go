package leadergeo

import (
	"fmt"
	"math"
	"net"
	"net/netip"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/oschwald/maxminddb-golang"
)

// GeoResolver resolves a participant address to a geographic bucket.
// Implementations may block on an external backend. Any error they
// return aborts the generation run that called them.
type GeoResolver interface {
	ResolveIP(ip netip.Addr) (GeoBucket, error)
}

// regionSite anchors a datacenter region at physical coordinates for
// the nearest-site fallback below.
type regionSite struct {
	bucket GeoBucket
	ll     s2.LatLng
}

var regionSites = []regionSite{
	{BucketMe, s2.LatLngFromDegrees(25.2048, 55.2708)},    // Dubai
	{BucketEu, s2.LatLngFromDegrees(50.1109, 8.6821)},     // Frankfurt
	{BucketNa, s2.LatLngFromDegrees(40.7128, -74.0060)},   // New York
	{BucketApac, s2.LatLngFromDegrees(35.6762, 139.6503)}, // Tokyo
}

// maxSiteDistance is ~2500km in radians on the unit sphere. Networks
// located but not attributed to a country are snapped to the nearest
// datacenter site only within this radius; anything farther stays
// Unknown rather than being claimed by an arbitrary region.
const maxSiteDistance = 0.392

// MaxMindResolver resolves addresses against a local MaxMind city
// database (GeoLite2 or GeoIP2 .mmdb).
type MaxMindResolver struct {
	reader *maxminddb.Reader
}

// mmdbCity is the subset of the City record the resolver decodes.
type mmdbCity struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

// OpenMaxMindResolver opens the database at path.
func OpenMaxMindResolver(path string) (*MaxMindResolver, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening geoip database %s: %w", path, err)
	}
	return &MaxMindResolver{reader: reader}, nil
}

// Close releases the underlying database.
func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

// ResolveIP classifies an address. Addresses absent from the database
// decode to an empty record and classify as Unknown; only a failure of
// the database itself is an error.
func (r *MaxMindResolver) ResolveIP(ip netip.Addr) (GeoBucket, error) {
	var rec mmdbCity
	if err := r.reader.Lookup(net.IP(ip.AsSlice()), &rec); err != nil {
		return BucketUnknown, fmt.Errorf("geoip lookup for %s: %w", ip, err)
	}
	return bucketForRecord(rec.Country.ISOCode, rec.Location.Latitude, rec.Location.Longitude), nil
}

// bucketForRecord classifies a geoip record. The country ISO code wins
// when present. Records carrying coordinates but no country (satellite
// providers, anycast blocks) fall back to the nearest datacenter site.
func bucketForRecord(iso string, lat, lng float64) GeoBucket {
	if iso != "" {
		return BucketFromCountryISO(iso)
	}
	return bucketNearSite(lat, lng)
}

// bucketNearSite returns the bucket of the closest datacenter site
// within maxSiteDistance, or Unknown.
func bucketNearSite(lat, lng float64) GeoBucket {
	if !validLatLng(lat, lng) {
		return BucketUnknown
	}
	ll := s2.LatLngFromDegrees(lat, lng)

	best := BucketUnknown
	bestDist := s1.Angle(maxSiteDistance)
	for _, site := range regionSites {
		if d := ll.Distance(site.ll); d < bestDist {
			best = site.bucket
			bestDist = d
		}
	}
	return best
}

// validLatLng rejects NaN/Inf, out-of-range values, and 0,0: the
// placeholder MaxMind uses for unlocated networks.
func validLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return true
}
