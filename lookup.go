package leadergeo

import "bytes"

// Lookup binary-searches a raw map blob for key and returns the stored
// bucket byte. Keys not present report false, as does any blob whose
// length is not a multiple of RecordSize: the blob may be externally
// supplied, so every access is bounds-checked against its observed
// length and a malformed blob degrades to not-found instead of
// panicking. O(log n) time, no allocation.
func Lookup(blob []byte, key PublicKey) (byte, bool) {
	if len(blob)%RecordSize != 0 {
		return 0, false
	}

	left, right := 0, len(blob)/RecordSize
	for left < right {
		mid := left + (right-left)/2
		off := mid * RecordSize

		cmp := bytes.Compare(blob[off:off+len(key)], key[:])
		switch {
		case cmp < 0:
			left = mid + 1
		case cmp > 0:
			right = mid
		default:
			return blob[off+len(key)], true
		}
	}
	return 0, false
}

// LookupLabel resolves a base58 participant key against a blob and
// returns the canonical geo label for its bucket. Undecodable keys,
// missing keys, malformed blobs, and illegal bucket bytes all report
// not-found.
func LookupLabel(blob []byte, base58Key string) (string, bool) {
	key, err := ParsePublicKey(base58Key)
	if err != nil {
		return "", false
	}
	v, ok := Lookup(blob, key)
	if !ok {
		return "", false
	}
	return BucketLabelFromByte(v)
}
