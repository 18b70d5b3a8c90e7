// Command geomapper builds the leader geo map: it enumerates cluster
// nodes over RPC, resolves each node's address to a coarse geographic
// bucket through a local MaxMind database, merges manual overrides,
// and writes the sorted binary map plus its audit sidecar.
//
// Usage:
//
//	geomapper --output leader_geo_map.bin [--rpc-url URL] [--db GeoLite2-City.mmdb] [--overrides FILE] [--config FILE]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/validatorgeo/leadergeo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "geomapper failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = pflag.String("config", "", "optional YAML config file")
		rpcURL     = pflag.String("rpc-url", "", "cluster RPC endpoint")
		output     = pflag.String("output", "", "map output path (required)")
		dbPath     = pflag.String("db", "", "MaxMind city database path")
		overrides  = pflag.String("overrides", "", "manual override file")
	)
	pflag.Parse()

	cfg, err := leadergeo.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *rpcURL != "" {
		cfg.RPCURL = *rpcURL
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *overrides != "" {
		cfg.Overrides = *overrides
	}
	if cfg.Output == "" {
		return errors.New("--output is required")
	}

	client := leadergeo.NewClusterClient(cfg.RPCURL, cfg.Timeout())

	rows, err := client.GetClusterNodes()
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d candidate leader rows from %s\n", len(rows), cfg.RPCURL)
	if len(rows) == 0 {
		fmt.Println("warning: no rows found; output map will be empty")
	}

	if cfg.Overrides != "" {
		overrideRows, err := leadergeo.ParseOverridesFile(cfg.Overrides)
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d override rows from %s\n", len(overrideRows), cfg.Overrides)
		// Overrides go first: the merge policy keeps the first concrete
		// bucket per key, so an operator row beats cluster discovery.
		rows = append(overrideRows, rows...)
	}

	resolver, err := leadergeo.OpenMaxMindResolver(cfg.DBPath)
	if err != nil {
		return err
	}
	defer resolver.Close()

	m, stats, err := leadergeo.BuildGeoMap(rows, resolver)
	if err != nil {
		return err
	}

	if err := leadergeo.WriteMapFile(cfg.Output, m); err != nil {
		return err
	}
	fmt.Printf("wrote %d records (%d bytes) to %s\n", stats.Total, stats.OutputBytes, cfg.Output)
	fmt.Printf("stats: total_leaders=%d mapped_leaders=%d unknown_leaders=%d unknown_rate=%.2f%% output_bytes=%d\n",
		stats.Total, stats.Mapped, stats.Unknown, stats.UnknownRatePct, stats.OutputBytes)

	slot, err := client.GetSlot()
	if err != nil {
		return err
	}
	metaPath, err := leadergeo.WriteMetadata(cfg.Output, cfg.DBPath, cfg.RPCURL, slot, stats)
	if err != nil {
		return err
	}
	fmt.Printf("wrote metadata sidecar to %s\n", metaPath)
	return nil
}
