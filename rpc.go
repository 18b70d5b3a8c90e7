package leadergeo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

// DefaultRPCURL is the public mainnet RPC endpoint.
const DefaultRPCURL = "https://api.mainnet-beta.solana.com"

// defaultRPCTimeout bounds a single RPC round trip. There are no
// retries: a failing endpoint aborts the run.
const defaultRPCTimeout = 30 * time.Second

// ClusterClient speaks the minimal JSON-RPC 2.0 surface the generator
// and router need: getClusterNodes, getSlot, getSlotLeaders.
type ClusterClient struct {
	url    string
	client *http.Client
}

// NewClusterClient returns a client for the given endpoint. A zero
// timeout uses the default.
func NewClusterClient(url string, timeout time.Duration) *ClusterClient {
	if timeout <= 0 {
		timeout = defaultRPCTimeout
	}
	return &ClusterClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call posts one JSON-RPC request and decodes the result member into
// result. An error member in the envelope, a non-200 status, or a
// missing result are all backend failures.
func (c *ClusterClient) call(method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("RPC %s: encoding request: %w", method, err)
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("RPC %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RPC %s: status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Error  *rpcError       `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("RPC %s: decoding response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("RPC %s: %w", method, envelope.Error)
	}
	if envelope.Result == nil {
		return fmt.Errorf("RPC %s: response missing result", method)
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("RPC %s: decoding result: %w", method, err)
	}
	return nil
}

// clusterNode is the subset of getClusterNodes contact info we read.
// Transport addresses may be null for nodes that do not expose them.
type clusterNode struct {
	Pubkey  string  `json:"pubkey"`
	TPUQuic *string `json:"tpu_quic"`
	TPU     *string `json:"tpu"`
	Gossip  *string `json:"gossip"`
	RPC     *string `json:"rpc"`
}

// GetClusterNodes returns candidate rows for map generation: every
// node with a decodable 32-byte key and a usable contact address.
// Nodes missing either are skipped, not errors. The batch is sorted by
// (key, address) before returning so that generation output does not
// depend on the order the endpoint happened to list nodes in.
func (c *ClusterClient) GetClusterNodes() ([]InputRow, error) {
	var nodes []clusterNode
	if err := c.call("getClusterNodes", nil, &nodes); err != nil {
		return nil, err
	}

	rows := make([]InputRow, 0, len(nodes))
	for _, n := range nodes {
		key, err := ParsePublicKey(n.Pubkey)
		if err != nil {
			continue
		}
		addr, ok := preferredNodeAddr(n)
		if !ok {
			continue
		}
		rows = append(rows, InputRow{Key: key, Source: SourceAddr(addr)})
	}
	SortRows(rows)
	return rows, nil
}

// preferredNodeAddr picks the node address to geolocate, preferring
// the transports a leader actually serves traffic on: tpu_quic, then
// tpu, gossip, rpc.
func preferredNodeAddr(n clusterNode) (netip.Addr, bool) {
	for _, s := range []*string{n.TPUQuic, n.TPU, n.Gossip, n.RPC} {
		if s == nil {
			continue
		}
		if addr, ok := extractAddr(*s); ok {
			return addr, true
		}
	}
	return netip.Addr{}, false
}

// extractAddr pulls the IP out of a socket string: "host:port", a bare
// address, a bracketed IPv6 with or without port, or a trailing-port
// form whose host is an address.
func extractAddr(socket string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(socket); err == nil {
		return ap.Addr(), true
	}
	if addr, err := netip.ParseAddr(socket); err == nil {
		return addr, true
	}
	if strings.HasPrefix(socket, "[") {
		if end := strings.Index(socket, "]"); end > 0 {
			if addr, err := netip.ParseAddr(socket[1:end]); err == nil {
				return addr, true
			}
		}
	}
	if i := strings.LastIndex(socket, ":"); i > 0 {
		if addr, err := netip.ParseAddr(socket[:i]); err == nil {
			return addr, true
		}
	}
	return netip.Addr{}, false
}

// GetSlot returns the endpoint's current slot.
func (c *ClusterClient) GetSlot() (uint64, error) {
	var slot uint64
	if err := c.call("getSlot", nil, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

// GetSlotLeader returns the leader identity for a slot. Should the
// schedule ever report more than one identity for the slot, the
// lexicographically smallest wins so that repeated queries agree.
func (c *ClusterClient) GetSlotLeader(slot uint64) (string, error) {
	var leaders []string
	if err := c.call("getSlotLeaders", []any{slot, 1}, &leaders); err != nil {
		return "", err
	}
	if len(leaders) == 0 {
		return "", fmt.Errorf("RPC getSlotLeaders: no leader returned for slot %d", slot)
	}
	leader := leaders[0]
	for _, l := range leaders[1:] {
		if l < leader {
			leader = l
		}
	}
	return leader, nil
}
