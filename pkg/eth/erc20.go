package eth

import (
	"context"
	"fmt"
	"math/big"
)

// TransferTopic is the keccak hash of the ERC-20 Transfer event signature.
const TransferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// ZeroAddress is the canonical null address, used both as the mint/burn
// counterparty in Transfer events and as the "no pair" factory answer.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// ContractInfo is the basic on-chain identity of a token contract. Fields are
// pointers because scam contracts routinely omit the optional ERC-20 views.
type ContractInfo struct {
	Address     string   `json:"address"`
	Name        *string  `json:"name,omitempty"`
	Symbol      *string  `json:"symbol,omitempty"`
	Decimals    *uint8   `json:"decimals,omitempty"`
	TotalSupply *big.Int `json:"total_supply,omitempty"`
	IsContract  bool     `json:"is_contract"`
}

func (c *Client) viewCall(ctx context.Context, contract string, data []byte) ([]byte, error) {
	return c.Call(ctx, CallMsg{To: contract, Data: data})
}

// BalanceOf returns holder's token balance.
func (c *Client) BalanceOf(ctx context.Context, token, holder string) (*big.Int, error) {
	data, err := EncodeBalanceOf(holder)
	if err != nil {
		return nil, err
	}
	ret, err := c.viewCall(ctx, token, data)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	return DecodeUint256(ret)
}

// Decimals returns the token's decimals, defaulting to 18 when the view is
// missing or malformed. Plenty of deployed tokens skip it.
func (c *Client) Decimals(ctx context.Context, token string) uint8 {
	ret, err := c.viewCall(ctx, token, encodeStatic(Selector("decimals()")))
	if err != nil {
		return 18
	}
	v, err := DecodeUint256(ret)
	if err != nil || v.Cmp(big.NewInt(77)) > 0 {
		return 18
	}
	return uint8(v.Uint64())
}

// TotalSupply returns the token's total supply.
func (c *Client) TotalSupply(ctx context.Context, token string) (*big.Int, error) {
	ret, err := c.viewCall(ctx, token, encodeStatic(Selector("totalSupply()")))
	if err != nil {
		return nil, fmt.Errorf("totalSupply: %w", err)
	}
	return DecodeUint256(ret)
}

// TokenString calls a string view such as name() or symbol().
func (c *Client) TokenString(ctx context.Context, token, method string) (string, error) {
	ret, err := c.viewCall(ctx, token, encodeStatic(Selector(method+"()")))
	if err != nil {
		return "", err
	}
	return DecodeString(ret)
}

// TokenUint calls a uint256 view by name; used by the tokenomics analyzer to
// probe tax getters (buyTax, _sellTax, taxFee, ...).
func (c *Client) TokenUint(ctx context.Context, token, method string) (*big.Int, error) {
	ret, err := c.viewCall(ctx, token, encodeStatic(Selector(method+"()")))
	if err != nil {
		return nil, err
	}
	return DecodeUint256(ret)
}

// GetContractInfo assembles the token's basic identity. Individual view
// failures degrade to nil fields; only the code probe decides IsContract.
func (c *Client) GetContractInfo(ctx context.Context, address string) (*ContractInfo, error) {
	info := &ContractInfo{Address: NormalizeAddress(address)}

	code, err := c.CodeAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("contract info: %w", err)
	}
	info.IsContract = code != ""

	if name, err := c.TokenString(ctx, address, "name"); err == nil && name != "" {
		info.Name = &name
	}
	if symbol, err := c.TokenString(ctx, address, "symbol"); err == nil && symbol != "" {
		info.Symbol = &symbol
	}
	decimals := c.Decimals(ctx, address)
	info.Decimals = &decimals
	if supply, err := c.TotalSupply(ctx, address); err == nil {
		info.TotalSupply = supply
	}

	return info, nil
}

// GetPair queries a V2 factory for the token/quote pair address. Returns
// empty string when the factory reports the zero address.
func (c *Client) GetPair(ctx context.Context, factory, token, quote string) (string, error) {
	data, err := EncodeGetPair(token, quote)
	if err != nil {
		return "", err
	}
	ret, err := c.viewCall(ctx, factory, data)
	if err != nil {
		return "", fmt.Errorf("getPair: %w", err)
	}
	pair, err := DecodeAddress(ret)
	if err != nil {
		return "", err
	}
	if pair == ZeroAddress {
		return "", nil
	}
	return pair, nil
}
