package leadergeo

import (
	"fmt"
	"os"
	"path/filepath"
)

// RecordSize is the fixed on-disk size of one map record: 32 key bytes
// followed by 1 bucket byte. No padding, no separators, no header; the
// persisted map is nothing but a sorted run of these records.
const RecordSize = 33

// EncodeMap serializes the map as RecordSize-byte records in strictly
// ascending key order. Encoding the same logical map always produces
// byte-identical output.
func EncodeMap(m *GeoMap) []byte {
	keys := m.SortedKeys()
	out := make([]byte, 0, len(keys)*RecordSize)
	for _, k := range keys {
		b, _ := m.Get(k)
		out = append(out, k[:]...)
		out = append(out, byte(b))
	}
	return out
}

// ValidBlob reports whether a persisted blob is structurally
// well-formed: the length must be an exact multiple of RecordSize.
// Nothing in this package dereferences a blob that fails this check.
func ValidBlob(blob []byte) bool {
	return len(blob)%RecordSize == 0
}

// WriteMapFile encodes the map and publishes it at path, creating the
// destination directory if needed. The blob goes to a temp file first
// and is renamed into place, so a crash mid-write never publishes a
// partial map.
func WriteMapFile(path string, m *GeoMap) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp map file: %w", err)
	}

	success := false
	defer func() {
		tmp.Close()
		if !success {
			os.Remove(tmp.Name()) // best-effort cleanup of partial file
		}
	}()

	if _, err := tmp.Write(EncodeMap(m)); err != nil {
		return fmt.Errorf("writing map file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("setting map file mode: %w", err)
	}
	// Explicitly close to catch flush errors before the rename publishes.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing map file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publishing map file %s: %w", path, err)
	}
	success = true
	return nil
}

// ReadMapFile loads a persisted map blob. Only I/O failures are
// errors; a structurally malformed blob is returned as-is because the
// query path degrades every lookup against it to not-found rather than
// failing its caller.
func ReadMapFile(path string) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return blob, nil
}
