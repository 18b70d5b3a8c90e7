package leadergeo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMetadataPathForMap(t *testing.T) {
	tests := []struct {
		mapPath string
		want    string
	}{
		{"data/leader_geo_map.bin", "data/leader_geo_map.meta.json"},
		{"map.bin", "map.meta.json"},
		{"map", "map.meta.json"},
	}
	for _, tt := range tests {
		if got := MetadataPathForMap(tt.mapPath); got != tt.want {
			t.Errorf("MetadataPathForMap(%q) = %q, want %q", tt.mapPath, got, tt.want)
		}
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "leader_geo_map.bin")
	dbPath := filepath.Join(dir, "geo.mmdb")

	mapContent := []byte("map-bytes")
	dbContent := []byte("db-bytes")
	if err := os.WriteFile(mapPath, mapContent, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dbPath, dbContent, 0644); err != nil {
		t.Fatal(err)
	}

	stats := Stats{Total: 4, Mapped: 3, Unknown: 1, UnknownRatePct: 25, OutputBytes: 4 * RecordSize}
	before := time.Now().Unix()
	metaPath, err := WriteMetadata(mapPath, dbPath, "https://rpc.example", 12345, stats)
	if err != nil {
		t.Fatal(err)
	}
	if metaPath != MetadataPathForMap(mapPath) {
		t.Errorf("sidecar written to %s", metaPath)
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatal(err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}

	if meta.SchemaVersion != 1 {
		t.Errorf("SchemaVersion = %d", meta.SchemaVersion)
	}
	if meta.GeneratedAtUnixSecs < before || meta.GeneratedAtUnixSecs > time.Now().Unix() {
		t.Errorf("GeneratedAtUnixSecs = %d out of range", meta.GeneratedAtUnixSecs)
	}
	if meta.RPCURL != "https://rpc.example" || meta.RPCSlot != 12345 {
		t.Errorf("source fields = %q, %d", meta.RPCURL, meta.RPCSlot)
	}
	if meta.RecordSizeBytes != RecordSize {
		t.Errorf("RecordSizeBytes = %d", meta.RecordSizeBytes)
	}
	if meta.TotalLeaders != 4 || meta.MappedLeaders != 3 || meta.UnknownLeaders != 1 || meta.UnknownRatePct != 25 {
		t.Errorf("stats fields = %+v", meta)
	}
	if meta.MapSizeBytes != 4*RecordSize {
		t.Errorf("MapSizeBytes = %d", meta.MapSizeBytes)
	}

	wantMapHash := sha256.Sum256(mapContent)
	if meta.MapSHA256 != hex.EncodeToString(wantMapHash[:]) {
		t.Errorf("MapSHA256 = %s", meta.MapSHA256)
	}
	wantDBHash := sha256.Sum256(dbContent)
	if meta.MMDBSHA256 != hex.EncodeToString(wantDBHash[:]) {
		t.Errorf("MMDBSHA256 = %s", meta.MMDBSHA256)
	}
}

func TestWriteMetadataMissingMapFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "geo.mmdb")
	if err := os.WriteFile(dbPath, []byte("db"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := WriteMetadata(filepath.Join(dir, "absent.bin"), dbPath, "url", 1, Stats{})
	if err == nil {
		t.Fatal("expected error when the map file is missing")
	}
}
