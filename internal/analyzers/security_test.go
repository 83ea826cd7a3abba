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

const analyzedToken = "0x1111111111111111111111111111111111111111"

// mockRPC answers eth_getCode with the given bytecode and reverts every
// eth_call, which is enough for the bytecode-driven analyzers.
func mockRPC(t *testing.T, bytecode string) *httptest.Server {
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
		case "eth_getCode":
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"%s"}`, call.ID, bytecode)
		default:
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":3,"message":"execution reverted"}}`, call.ID)
		}
	}))
}

func rpcClient(t *testing.T, endpoint string) *eth.Client {
	t.Helper()
	client, err := eth.NewClient(endpoint)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return client
}

func TestSecurityDetectsMintCapability(t *testing.T) {
	srv := mockRPC(t, "0x6080604052600040c10f19fe")
	defer srv.Close()

	res, err := NewSecurityAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if res.Features["has_mint"] != 1 {
		t.Fatalf("mint selector not detected, features %v", res.Features)
	}
	if res.RiskScore <= 0 {
		t.Fatalf("risk = %v, want positive", res.RiskScore)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "mint()") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no mint warning in %v", res.Warnings)
	}
}

func TestSecurityEOAIsCritical(t *testing.T) {
	srv := mockRPC(t, "0x")
	defer srv.Close()

	res, err := NewSecurityAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.RiskScore != 100 {
		t.Fatalf("risk = %v, want 100 for missing bytecode", res.RiskScore)
	}
	if res.Features["has_bytecode"] != 0 {
		t.Fatalf("has_bytecode = %v, want 0", res.Features["has_bytecode"])
	}
}

func TestSecurityCleanBytecode(t *testing.T) {
	// Long enough to dodge the small-contract heuristic, no known selectors.
	srv := mockRPC(t, "0x"+strings.Repeat("6080604052", 30))
	defer srv.Close()

	res, err := NewSecurityAnalyzer().Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.RiskScore != 0 {
		t.Fatalf("risk = %v, want 0 for clean bytecode", res.RiskScore)
	}
	if res.Features["dangerous_function_count"] != 0 {
		t.Fatalf("unexpected dangerous functions: %v", res.Data)
	}
}

type fixedScamDB struct{ known bool }

func (f fixedScamDB) IsKnownScam(string) bool { return f.known }
func (f fixedScamDB) Size() int               { return 1 }

func TestPatternKnownScamShortCircuits(t *testing.T) {
	// No RPC server at all: the scam hit must answer before any chain call.
	client := rpcClient(t, "http://127.0.0.1:1")

	res, err := NewPatternAnalyzer(fixedScamDB{known: true}).Analyze(context.Background(), analyzedToken, client)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.RiskScore != 100 || res.Features["is_known_scam"] != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPatternCountsHoneypotFragments(t *testing.T) {
	srv := mockRPC(t, "0x6080f9f92be460808a8c523c")
	defer srv.Close()

	res, err := NewPatternAnalyzer(fixedScamDB{}).Analyze(context.Background(), analyzedToken, rpcClient(t, srv.URL))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Features["honeypot_pattern_count"] != 2 {
		t.Fatalf("pattern count = %v, want 2", res.Features["honeypot_pattern_count"])
	}
	if res.RiskScore != 30 {
		t.Fatalf("risk = %v, want 30 for two fragments", res.RiskScore)
	}
}
