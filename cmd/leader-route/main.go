// Command leader-route reports which datacenter region is closest to
// the current slot leader. It loads the leader geo map once, fetches
// the current slot and its leader over RPC, and emits the routing
// decision as JSON on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/validatorgeo/leadergeo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leader-route failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		mapPath = pflag.String("map", "leader_geo_map.bin", "path to the leader geo map")
		rpcURL  = pflag.String("rpc-url", leadergeo.DefaultRPCURL, "cluster RPC endpoint")
	)
	pflag.Parse()

	table, err := leadergeo.LoadDefaultRoutingTable(*mapPath)
	if err != nil {
		return err
	}

	client := leadergeo.NewClusterClient(*rpcURL, 0)
	slot, err := client.GetSlot()
	if err != nil {
		return fmt.Errorf("fetching current slot: %w", err)
	}
	leader, err := client.GetSlotLeader(slot)
	if err != nil {
		return fmt.Errorf("fetching leader for slot %d: %w", slot, err)
	}

	geo, region := table.Route(leader)
	log.Printf("slot=%d leader=%s leader_geo=%s closest_region=%s", slot, leader, geo, region)

	out := struct {
		Slot          uint64           `json:"slot"`
		Leader        string           `json:"leader"`
		LeaderGeo     string           `json:"leader_geo"`
		ClosestRegion leadergeo.Region `json:"closest_region"`
	}{slot, leader, geo, region}
	return json.NewEncoder(os.Stdout).Encode(out)
}
