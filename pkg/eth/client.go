package eth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	xhttp "RugScan/pkg/http"
)

// Client is a minimal JSON-RPC client for EVM endpoints. It exposes only the
// read surface the analyzers and the honeypot simulator need; all calls are
// eth_call-class operations that never mutate chain state.
type Client struct {
	endpoint string
	http     *xhttp.Client
	nextID   atomic.Int64
}

// ClientOption configures Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	timeout time.Duration
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.timeout = d }
}

// NewClient creates a JSON-RPC client for the given endpoint.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("empty rpc endpoint")
	}
	cfg := &clientConfig{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{
		endpoint: endpoint,
		http:     xhttp.NewClient(xhttp.WithTimeout(cfg.timeout)),
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      int64           `json:"id"`
}

func (c *Client) rpc(ctx context.Context, method string, params any, result any) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	var resp rpcResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     c.endpoint,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    req,
	}, &resp)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if resp.Error != nil {
		return parseRPCError(resp.Error.Code, resp.Error.Message, resp.Error.Data)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// CallMsg describes a read-only contract call.
type CallMsg struct {
	From  string
	To    string
	Data  []byte
	Value *big.Int
}

func (m CallMsg) toParam() map[string]string {
	p := map[string]string{
		"to":   m.To,
		"data": "0x" + hex.EncodeToString(m.Data),
	}
	if m.From != "" {
		p["from"] = m.From
	}
	if m.Value != nil && m.Value.Sign() > 0 {
		p["value"] = "0x" + m.Value.Text(16)
	}
	return p
}

// Call executes a read-only eth_call. A contract revert surfaces as
// *RevertError; a missing-balance failure surfaces as ErrInsufficientFunds.
func (c *Client) Call(ctx context.Context, msg CallMsg) ([]byte, error) {
	var out string
	if err := c.rpc(ctx, "eth_call", []any{msg.toParam(), "latest"}, &out); err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.TrimPrefix(out, "0x"))
}

// CodeAt returns the hex-encoded bytecode deployed at address, without the
// 0x prefix. Empty string means no code (EOA or destroyed contract).
func (c *Client) CodeAt(ctx context.Context, address string) (string, error) {
	var out string
	if err := c.rpc(ctx, "eth_getCode", []any{address, "latest"}, &out); err != nil {
		return "", err
	}
	return strings.TrimPrefix(out, "0x"), nil
}

// BlockNumber returns the current head block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var out string
	if err := c.rpc(ctx, "eth_blockNumber", []any{}, &out); err != nil {
		return 0, err
	}
	return parseHexUint(out)
}

// Log is a single EVM event log.
type Log struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber string   `json:"blockNumber"`
	TxHash      string   `json:"transactionHash"`
}

// LogFilter selects logs by address, topics and block range.
type LogFilter struct {
	Address   string
	Topics    []string
	FromBlock uint64
	ToBlock   uint64
}

// GetLogs fetches logs matching the filter via eth_getLogs.
func (c *Client) GetLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	param := map[string]any{
		"address":   filter.Address,
		"fromBlock": "0x" + new(big.Int).SetUint64(filter.FromBlock).Text(16),
		"toBlock":   "0x" + new(big.Int).SetUint64(filter.ToBlock).Text(16),
	}
	if len(filter.Topics) > 0 {
		param["topics"] = filter.Topics
	}
	var logs []Log
	if err := c.rpc(ctx, "eth_getLogs", []any{param}, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func parseHexUint(s string) (uint64, error) {
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok {
		return 0, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v.Uint64(), nil
}
