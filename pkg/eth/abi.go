package eth

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the keccak-256 hash of data.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Selector returns the 4-byte function selector for a canonical signature,
// e.g. "balanceOf(address)".
func Selector(signature string) []byte {
	return Keccak256([]byte(signature))[:4]
}

// word left-pads b into a 32-byte ABI word.
func word(b []byte) []byte {
	w := make([]byte, 32)
	copy(w[32-len(b):], b)
	return w
}

func addressWord(addr string) ([]byte, error) {
	b, err := decodeAddress(addr)
	if err != nil {
		return nil, err
	}
	return word(b), nil
}

func uintWord(v *big.Int) []byte {
	return word(v.Bytes())
}

func decodeAddress(addr string) ([]byte, error) {
	s := strings.TrimPrefix(strings.ToLower(addr), "0x")
	if len(s) != 40 {
		return nil, fmt.Errorf("invalid address %q", addr)
	}
	return hex.DecodeString(s)
}

// IsAddress reports whether s looks like a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// NormalizeAddress lowercases a hex address for use as a map/cache key.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// encodeStatic concatenates the selector with fixed 32-byte words.
func encodeStatic(selector []byte, words ...[]byte) []byte {
	out := make([]byte, 0, 4+32*len(words))
	out = append(out, selector...)
	for _, w := range words {
		out = append(out, w...)
	}
	return out
}

// EncodeBalanceOf builds calldata for balanceOf(address).
func EncodeBalanceOf(holder string) ([]byte, error) {
	w, err := addressWord(holder)
	if err != nil {
		return nil, err
	}
	return encodeStatic(Selector("balanceOf(address)"), w), nil
}

// EncodeTransfer builds calldata for transfer(address,uint256).
func EncodeTransfer(to string, amount *big.Int) ([]byte, error) {
	w, err := addressWord(to)
	if err != nil {
		return nil, err
	}
	return encodeStatic(Selector("transfer(address,uint256)"), w, uintWord(amount)), nil
}

// EncodeApprove builds calldata for approve(address,uint256).
func EncodeApprove(spender string, amount *big.Int) ([]byte, error) {
	w, err := addressWord(spender)
	if err != nil {
		return nil, err
	}
	return encodeStatic(Selector("approve(address,uint256)"), w, uintWord(amount)), nil
}

// EncodeGetPair builds calldata for the V2 factory getPair(address,address).
func EncodeGetPair(tokenA, tokenB string) ([]byte, error) {
	a, err := addressWord(tokenA)
	if err != nil {
		return nil, err
	}
	b, err := addressWord(tokenB)
	if err != nil {
		return nil, err
	}
	return encodeStatic(Selector("getPair(address,address)"), a, b), nil
}

// EncodeSwapETHForTokens builds calldata for
// swapExactETHForTokensSupportingFeeOnTransferTokens(uint256,address[],address,uint256).
// The path array is the only dynamic argument; its offset is fixed at 4 words.
func EncodeSwapETHForTokens(amountOutMin *big.Int, path []string, to string, deadline *big.Int) ([]byte, error) {
	sel := Selector("swapExactETHForTokensSupportingFeeOnTransferTokens(uint256,address[],address,uint256)")
	toWord, err := addressWord(to)
	if err != nil {
		return nil, err
	}
	head := [][]byte{
		uintWord(amountOutMin),
		uintWord(big.NewInt(4 * 32)), // offset of path
		toWord,
		uintWord(deadline),
	}
	return appendPathTail(encodeStatic(sel, head...), path)
}

// EncodeSwapTokensForTokens builds calldata for
// swapExactTokensForTokensSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256).
func EncodeSwapTokensForTokens(amountIn, amountOutMin *big.Int, path []string, to string, deadline *big.Int) ([]byte, error) {
	sel := Selector("swapExactTokensForTokensSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)")
	toWord, err := addressWord(to)
	if err != nil {
		return nil, err
	}
	head := [][]byte{
		uintWord(amountIn),
		uintWord(amountOutMin),
		uintWord(big.NewInt(5 * 32)), // offset of path
		toWord,
		uintWord(deadline),
	}
	return appendPathTail(encodeStatic(sel, head...), path)
}

func appendPathTail(data []byte, path []string) ([]byte, error) {
	data = append(data, uintWord(big.NewInt(int64(len(path))))...)
	for _, addr := range path {
		w, err := addressWord(addr)
		if err != nil {
			return nil, err
		}
		data = append(data, w...)
	}
	return data, nil
}

// DecodeUint256 decodes a single uint256 return word.
func DecodeUint256(ret []byte) (*big.Int, error) {
	if len(ret) < 32 {
		return nil, fmt.Errorf("short return data (%d bytes)", len(ret))
	}
	return new(big.Int).SetBytes(ret[:32]), nil
}

// DecodeAddress decodes a single address return word.
func DecodeAddress(ret []byte) (string, error) {
	if len(ret) < 32 {
		return "", fmt.Errorf("short return data (%d bytes)", len(ret))
	}
	return "0x" + hex.EncodeToString(ret[12:32]), nil
}

// DecodeString decodes a single dynamic string return value
// (offset word, length word, UTF-8 payload).
func DecodeString(ret []byte) (string, error) {
	if len(ret) < 64 {
		return "", fmt.Errorf("short return data (%d bytes)", len(ret))
	}
	offset := new(big.Int).SetBytes(ret[:32]).Int64()
	if offset < 0 || offset+32 > int64(len(ret)) {
		return "", fmt.Errorf("string offset out of range")
	}
	length := new(big.Int).SetBytes(ret[offset : offset+32]).Int64()
	if length < 0 || offset+32+length > int64(len(ret)) {
		return "", fmt.Errorf("string length out of range")
	}
	return string(ret[offset+32 : offset+32+length]), nil
}
