package leadergeo

import "hash/fnv"

// Region is one of the four fixed datacenter locations a caller may be
// routed to.
type Region string

const (
	RegionDubai     Region = "Dubai"
	RegionFrankfurt Region = "Frankfurt"
	RegionNewYork   Region = "NewYork"
	RegionTokyo     Region = "Tokyo"
)

// bucketRegions maps each concrete bucket to its datacenter region.
// Unknown has no region; callers fall back to FallbackRegion.
var bucketRegions = map[GeoBucket]Region{
	BucketEu:   RegionFrankfurt,
	BucketMe:   RegionDubai,
	BucketNa:   RegionNewYork,
	BucketApac: RegionTokyo,
}

// RegionFromGeo maps a bucket label or country code to the region
// serving that geography. Unrecognized or Unknown input returns false.
func RegionFromGeo(text string) (Region, bool) {
	r, ok := bucketRegions[BucketFromGeoInput(text)]
	return r, ok
}

// fallbackOrder fixes the hash-to-region assignment: index is the
// identifier hash mod 4. The order is part of the persisted contract
// with earlier generations of the tool and must not change.
var fallbackOrder = [4]Region{RegionDubai, RegionFrankfurt, RegionNewYork, RegionTokyo}

// FallbackRegion deterministically assigns a region to an identifier
// that has no usable geo data. FNV-1a over the raw identifier bytes
// keeps the assignment stable across calls and process restarts.
func FallbackRegion(id string) Region {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fallbackOrder[h.Sum64()%4]
}

// ChooseRegion picks the region for a routing decision: geo text when
// it maps to a region, the identifier hash fallback otherwise.
func ChooseRegion(geo, id string) Region {
	if r, ok := RegionFromGeo(geo); ok {
		return r
	}
	return FallbackRegion(id)
}
