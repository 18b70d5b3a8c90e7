package leadergeo

import "strings"

// GeoBucket is the coarse geographic classification of a network
// participant. It is encoded as exactly one byte in the persisted map;
// any byte outside the constants below is not a legal bucket.
type GeoBucket byte

const (
	BucketUnknown GeoBucket = 0
	BucketEu      GeoBucket = 1
	BucketNa      GeoBucket = 2
	BucketApac    GeoBucket = 3
	BucketMe      GeoBucket = 4
)

// countryBuckets maps ISO 3166-1 alpha-2 country codes to buckets.
// The sets are fixed: they cover the countries where validator
// concentration is high enough to matter for routing. Everything else
// classifies as Unknown.
var countryBuckets = map[string]GeoBucket{
	// EU
	"DE": BucketEu, "FR": BucketEu, "NL": BucketEu, "GB": BucketEu,
	"CH": BucketEu, "SE": BucketEu, "NO": BucketEu, "PL": BucketEu,
	"ES": BucketEu, "IT": BucketEu,
	// ME
	"AE": BucketMe, "SA": BucketMe, "IL": BucketMe, "TR": BucketMe,
	"QA": BucketMe, "BH": BucketMe, "OM": BucketMe, "KW": BucketMe,
	// NA
	"US": BucketNa, "CA": BucketNa, "MX": BucketNa,
	// APAC
	"JP": BucketApac, "KR": BucketApac, "SG": BucketApac, "HK": BucketApac,
	"TW": BucketApac, "IN": BucketApac, "AU": BucketApac, "NZ": BucketApac,
}

// bucketLabels gives the canonical text label for each legal bucket.
var bucketLabels = map[GeoBucket]string{
	BucketUnknown: "UNKNOWN",
	BucketEu:      "EU",
	BucketNa:      "NA",
	BucketApac:    "APAC",
	BucketMe:      "ME",
}

// Label returns the canonical text label for the bucket, or "UNKNOWN"
// for values outside the legal domain.
func (b GeoBucket) Label() string {
	if l, ok := bucketLabels[b]; ok {
		return l
	}
	return "UNKNOWN"
}

// BucketFromCountryISO classifies a trimmed, case-folded ISO 3166-1
// alpha-2 country code. Codes outside the fixed sets return Unknown.
func BucketFromCountryISO(code string) GeoBucket {
	if b, ok := countryBuckets[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return b
	}
	return BucketUnknown
}

// BucketFromLabel matches a bucket label case-insensitively after
// trimming and stripping one optional leading '@'. The second return
// is false when the text is not a label at all.
func BucketFromLabel(text string) (GeoBucket, bool) {
	t := strings.ToUpper(strings.TrimSpace(text))
	t = strings.TrimPrefix(t, "@")
	for b, l := range bucketLabels {
		if t == l {
			return b, true
		}
	}
	return BucketUnknown, false
}

// BucketFromGeoInput classifies free-form geo text: a bucket label if
// it is one, otherwise a country code.
func BucketFromGeoInput(text string) GeoBucket {
	if b, ok := BucketFromLabel(text); ok {
		return b
	}
	return BucketFromCountryISO(text)
}

// BucketFromByte converts a stored bucket byte back to a GeoBucket.
// Bytes outside the legal 0-4 domain are rejected; persisted blobs are
// externally supplied data and a writer bug must not leak through the
// query path unvalidated.
func BucketFromByte(v byte) (GeoBucket, bool) {
	if _, ok := bucketLabels[GeoBucket(v)]; ok {
		return GeoBucket(v), true
	}
	return BucketUnknown, false
}

// BucketLabelFromByte returns the label for a stored bucket byte,
// rejecting illegal bytes the same way BucketFromByte does.
func BucketLabelFromByte(v byte) (string, bool) {
	if l, ok := bucketLabels[GeoBucket(v)]; ok {
		return l, true
	}
	return "", false
}
