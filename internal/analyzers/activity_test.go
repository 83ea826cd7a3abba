package analyzers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RugScan/pkg/eth"
)

// logsRPC serves a fixed head block, the given Transfer logs, and a single
// totalSupply answer (reverting when supplyHex is empty).
func logsRPC(t *testing.T, logs []eth.Log, supplyHex string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call struct {
			Method string `json:"method"`
			ID     int64  `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			t.Errorf("bad rpc request: %v", err)
			return
		}
		switch call.Method {
		case "eth_blockNumber":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"0x100000"}`, call.ID)
		case "eth_getLogs":
			body, _ := json.Marshal(logs)
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, call.ID, body)
		case "eth_call":
			if supplyHex == "" {
				fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":3,"message":"execution reverted"}}`, call.ID)
				return
			}
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"%s"}`, call.ID, supplyHex)
		default:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, call.ID)
		}
	}))
}

func addressTopic(addr string) string {
	return "0x" + strings.Repeat("0", 24) + strings.TrimPrefix(addr, "0x")
}

func transferLog(from, to string, value int64) eth.Log {
	return eth.Log{
		Address: analyzedToken,
		Topics:  []string{eth.TransferTopic, addressTopic(from), addressTopic(to)},
		Data:    fmt.Sprintf("0x%064x", value),
	}
}

func wallet(i int) string {
	return fmt.Sprintf("0x%040x", i+0x100)
}

func TestHolderConcentration(t *testing.T) {
	// One whale takes 950 of 1005 sampled tokens, eleven wallets share the rest.
	logs := []eth.Log{transferLog(eth.ZeroAddress, wallet(0), 950)}
	for i := 1; i < 12; i++ {
		logs = append(logs, transferLog(eth.ZeroAddress, wallet(i), 5))
	}
	srv := logsRPC(t, logs, "")
	defer srv.Close()

	res, err := NewHolderAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if res.Features["top_10_concentration"] <= 0.9 {
		t.Fatalf("top 10 concentration = %v, want > 0.9", res.Features["top_10_concentration"])
	}
	if res.RiskScore < 60 {
		t.Fatalf("risk = %v, want at least 60 for extreme centralization", res.RiskScore)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "EXTREME CENTRALIZATION") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no centralization warning in %v", res.Warnings)
	}
	if res.Data["analyzed_wallet_count"] != 12 {
		t.Fatalf("wallet count = %v, want 12", res.Data["analyzed_wallet_count"])
	}
}

func TestHolderNoActivity(t *testing.T) {
	srv := logsRPC(t, nil, "")
	defer srv.Close()

	res, err := NewHolderAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.RiskScore != 20 {
		t.Fatalf("risk = %v, want 20 when nothing was sampled", res.RiskScore)
	}
	if res.Features["holder_sample_size"] != 0 {
		t.Fatalf("sample size feature = %v, want 0", res.Features["holder_sample_size"])
	}
}

func TestTransferMintsAndWhales(t *testing.T) {
	// Three post-launch mints of 100 each against a supply of 1000: every
	// mint is also a whale-sized transfer.
	logs := []eth.Log{
		transferLog(eth.ZeroAddress, wallet(0), 100),
		transferLog(eth.ZeroAddress, wallet(1), 100),
		transferLog(eth.ZeroAddress, wallet(2), 100),
	}
	srv := logsRPC(t, logs, fmt.Sprintf("0x%064x", 1000))
	defer srv.Close()

	res, err := NewTransferAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if res.Data["recent_mints"] != 3 {
		t.Fatalf("recent_mints = %v, want 3", res.Data["recent_mints"])
	}
	if res.Data["large_transfers"] != 3 {
		t.Fatalf("large_transfers = %v, want 3", res.Data["large_transfers"])
	}
	if res.Features["recent_mint_count"] != 3 {
		t.Fatalf("recent_mint_count = %v, want 3", res.Features["recent_mint_count"])
	}
	// Mints alone contribute 45, plus whale activity and low volume.
	if res.RiskScore < 55 {
		t.Fatalf("risk = %v, want at least 55", res.RiskScore)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "mint event") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no mint warning in %v", res.Warnings)
	}
}

func TestTransferQuietToken(t *testing.T) {
	srv := logsRPC(t, nil, "")
	defer srv.Close()

	res, err := NewTransferAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.RiskScore != 10 {
		t.Fatalf("risk = %v, want 10 for an inactive token", res.RiskScore)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "Very low transfer activity") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no low-activity warning in %v", res.Warnings)
	}
}
