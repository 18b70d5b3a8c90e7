package leadergeo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Metadata is the audit sidecar written next to each generated map.
// It records where the map came from and hashes of both the map and
// the geoip database that produced it. The query path never reads it.
type Metadata struct {
	SchemaVersion       int     `json:"schema_version"`
	GeneratedAtUnixSecs int64   `json:"generated_at_unix_secs"`
	RPCURL              string  `json:"rpc_url"`
	RPCSlot             uint64  `json:"rpc_slot"`
	DBPath              string  `json:"db_path"`
	MMDBSHA256          string  `json:"mmdb_sha256"`
	RecordSizeBytes     int     `json:"record_size_bytes"`
	TotalLeaders        int     `json:"total_leaders"`
	MappedLeaders       int     `json:"mapped_leaders"`
	UnknownLeaders      int     `json:"unknown_leaders"`
	UnknownRatePct      float64 `json:"unknown_rate_pct"`
	MapSizeBytes        int     `json:"map_size_bytes"`
	MapSHA256           string  `json:"map_sha256"`
}

// MetadataPathForMap returns the sidecar path for a map file:
// the map's extension replaced by ".meta.json".
func MetadataPathForMap(mapPath string) string {
	return strings.TrimSuffix(mapPath, filepath.Ext(mapPath)) + ".meta.json"
}

// WriteMetadata builds the sidecar for an already-published map file
// and writes it alongside. Returns the sidecar path.
func WriteMetadata(mapPath, dbPath, rpcURL string, rpcSlot uint64, stats Stats) (string, error) {
	mapHash, err := sha256File(mapPath)
	if err != nil {
		return "", fmt.Errorf("hashing map file: %w", err)
	}
	dbHash, err := sha256File(dbPath)
	if err != nil {
		return "", fmt.Errorf("hashing geoip database: %w", err)
	}

	meta := Metadata{
		SchemaVersion:       1,
		GeneratedAtUnixSecs: time.Now().Unix(),
		RPCURL:              rpcURL,
		RPCSlot:             rpcSlot,
		DBPath:              dbPath,
		MMDBSHA256:          dbHash,
		RecordSizeBytes:     RecordSize,
		TotalLeaders:        stats.Total,
		MappedLeaders:       stats.Mapped,
		UnknownLeaders:      stats.Unknown,
		UnknownRatePct:      stats.UnknownRatePct,
		MapSizeBytes:        stats.OutputBytes,
		MapSHA256:           mapHash,
	}

	path := MetadataPathForMap(mapPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing metadata %s: %w", path, err)
	}
	return path, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
