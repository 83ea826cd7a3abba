package honeypot

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RugScan/internal/domain/models"
	"RugScan/pkg/config"
	"RugScan/pkg/eth"
	"RugScan/pkg/logger"
)

const (
	testToken   = "0x1111111111111111111111111111111111111111"
	testPair    = "0x2222222222222222222222222222222222222222"
	testRouter  = "0x3333333333333333333333333333333333333333"
	testFactory = "0x4444444444444444444444444444444444444444"
	testWrapped = "0x5555555555555555555555555555555555555555"
)

// rpcScript controls how the mock node answers each probe.
type rpcScript struct {
	pair        string // empty means factory reports no pair
	balance     *big.Int
	sellRevert  string // revert message for the sell swap, empty means success
	transferErr string
}

type rpcCall struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     int64             `json:"id"`
}

func wordHex(v *big.Int) string {
	return fmt.Sprintf("%064x", v)
}

func addressWordHex(addr string) string {
	return strings.Repeat("0", 24) + strings.TrimPrefix(strings.ToLower(addr), "0x")
}

func mockNode(t *testing.T, script rpcScript) *httptest.Server {
	t.Helper()

	var (
		buySel      = hex.EncodeToString(eth.Selector("swapExactETHForTokensSupportingFeeOnTransferTokens(uint256,address[],address,uint256)"))
		sellSel     = hex.EncodeToString(eth.Selector("swapExactTokensForTokensSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)"))
		getPairSel  = hex.EncodeToString(eth.Selector("getPair(address,address)"))
		balanceSel  = hex.EncodeToString(eth.Selector("balanceOf(address)"))
		decimalsSel = hex.EncodeToString(eth.Selector("decimals()"))
		transferSel = hex.EncodeToString(eth.Selector("transfer(address,uint256)"))
	)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			t.Errorf("bad rpc request: %v", err)
			return
		}

		respond := func(result string) {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"%s"}`, call.ID, result)
		}
		revert := func(reason string) {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":3,"message":"execution reverted: %s"}}`, call.ID, reason)
		}

		if call.Method != "eth_call" {
			t.Errorf("unexpected method %s", call.Method)
			return
		}
		var msg map[string]string
		if err := json.Unmarshal(call.Params[0], &msg); err != nil {
			t.Errorf("bad call params: %v", err)
			return
		}
		data := strings.TrimPrefix(msg["data"], "0x")

		switch {
		case strings.HasPrefix(data, buySel):
			respond("0x")
		case strings.HasPrefix(data, getPairSel):
			pair := script.pair
			if pair == "" {
				pair = eth.ZeroAddress
			}
			respond("0x" + addressWordHex(pair))
		case strings.HasPrefix(data, balanceSel):
			respond("0x" + wordHex(script.balance))
		case strings.HasPrefix(data, decimalsSel):
			respond("0x" + wordHex(big.NewInt(18)))
		case strings.HasPrefix(data, sellSel):
			if script.sellRevert != "" {
				revert(script.sellRevert)
				return
			}
			respond("0x")
		case strings.HasPrefix(data, transferSel):
			if script.transferErr != "" {
				revert(script.transferErr)
				return
			}
			respond("0x")
		default:
			t.Errorf("unexpected call data %s", data)
		}
	}))
}

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func newTestSimulator(t *testing.T, endpoint string) *Simulator {
	t.Helper()
	client, err := eth.NewClient(endpoint)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	chain := config.ChainConfig{
		Router:       testRouter,
		Factory:      testFactory,
		WrappedToken: testWrapped,
	}
	return New(client, chain, log, Options{})
}

func TestSimulateHoneypot(t *testing.T) {
	srv := mockNode(t, rpcScript{
		pair:        testPair,
		balance:     tokens(1000),
		sellRevert:  "TRANSFER_FAILED",
		transferErr: "transfers disabled",
	})
	defer srv.Close()

	res := newTestSimulator(t, srv.URL).Simulate(t.Context(), testToken, models.LiquidityHint{})

	if res.Verdict != models.VerdictHoneypot {
		t.Fatalf("verdict = %s, want HONEYPOT", res.Verdict)
	}
	if res.Confidence != models.ConfidenceVeryHigh {
		t.Fatalf("confidence = %s, want very_high", res.Confidence)
	}
	if res.Sell.Outcome != models.StepFailed {
		t.Fatalf("sell outcome = %s, want failed", res.Sell.Outcome)
	}
	if !strings.Contains(res.Sell.Message, "TRANSFER_FAILED") {
		t.Fatalf("sell message lost the revert reason: %q", res.Sell.Message)
	}
	if res.Transfer == nil || res.Transfer.Success {
		t.Fatalf("transfer probe should run and fail after a sell failure")
	}
	if res.Features["can_sell"] != 0 || res.Features["simulation_verdict"] != 1 {
		t.Fatalf("unexpected features %v", res.Features)
	}
}

func TestSimulateMajorPoolArtifactOverride(t *testing.T) {
	// 50,000 tokens exceeds the major-pool threshold, so the allowance
	// artifact counts as a successful sell.
	srv := mockNode(t, rpcScript{
		pair:       testPair,
		balance:    tokens(50_000),
		sellRevert: "insufficient allowance",
	})
	defer srv.Close()

	res := newTestSimulator(t, srv.URL).Simulate(t.Context(), testToken, models.LiquidityHint{})

	if res.Verdict != models.VerdictSafe || res.Confidence != models.ConfidenceHigh {
		t.Fatalf("got %s/%s, want SAFE/high", res.Verdict, res.Confidence)
	}
	if !strings.Contains(res.Sell.Message, "major liquidity pool") {
		t.Fatalf("sell message = %q, want major pool note", res.Sell.Message)
	}
}

func TestSimulateMajorPoolGenuineRestriction(t *testing.T) {
	// A revert reason outside the artifact list is a real failure even on a
	// major pool.
	srv := mockNode(t, rpcScript{
		pair:       testPair,
		balance:    tokens(50_000),
		sellRevert: "sender is blacklisted",
	})
	defer srv.Close()

	res := newTestSimulator(t, srv.URL).Simulate(t.Context(), testToken, models.LiquidityHint{})

	if res.Verdict != models.VerdictHoneypot {
		t.Fatalf("verdict = %s, want HONEYPOT", res.Verdict)
	}
}

func TestSimulateUSDHintWidensMajorPool(t *testing.T) {
	usd := 2_000_000.0
	srv := mockNode(t, rpcScript{
		pair:       testPair,
		balance:    tokens(100),
		sellRevert: "transfer amount exceeds balance",
	})
	defer srv.Close()

	res := newTestSimulator(t, srv.URL).Simulate(t.Context(), testToken, models.LiquidityHint{USD: &usd})

	if res.Verdict != models.VerdictSafe {
		t.Fatalf("verdict = %s, want SAFE via USD hint", res.Verdict)
	}
}

func TestSimulateNoPairSkipsSell(t *testing.T) {
	srv := mockNode(t, rpcScript{balance: big.NewInt(0)})
	defer srv.Close()

	res := newTestSimulator(t, srv.URL).Simulate(t.Context(), testToken, models.LiquidityHint{})

	if res.Sell.Outcome != models.StepSkipped {
		t.Fatalf("sell outcome = %s, want skipped", res.Sell.Outcome)
	}
	if res.Verdict != models.VerdictSafe || res.Confidence != models.ConfidenceMedium {
		t.Fatalf("got %s/%s, want SAFE/medium", res.Verdict, res.Confidence)
	}
	if res.Transfer != nil {
		t.Fatalf("transfer probe should not run when sell was skipped")
	}
}
