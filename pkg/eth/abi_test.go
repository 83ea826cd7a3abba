package eth

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"
)

func TestSelectorKnownValues(t *testing.T) {
	cases := map[string]string{
		"balanceOf(address)":        "70a08231",
		"transfer(address,uint256)": "a9059cbb",
		"approve(address,uint256)":  "095ea7b3",
		"getPair(address,address)":  "e6a43905",
		"decimals()":                "313ce567",
		"totalSupply()":             "18160ddd",
	}
	for sig, want := range cases {
		if got := hex.EncodeToString(Selector(sig)); got != want {
			t.Fatalf("Selector(%q) = %s, want %s", sig, got, want)
		}
	}
}

func TestEncodeBalanceOf(t *testing.T) {
	data, err := EncodeBalanceOf("0x00000000000000000000000000000000000000aB")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != 4+32 {
		t.Fatalf("calldata length = %d, want 36", len(data))
	}
	if data[35] != 0xab {
		t.Fatalf("address not right-aligned in word")
	}
}

func TestEncodeSwapETHForTokensLayout(t *testing.T) {
	path := []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	}
	data, err := EncodeSwapETHForTokens(big.NewInt(0), path, "0x3333333333333333333333333333333333333333", big.NewInt(1234))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// selector + 4 head words + length word + 2 path words
	if len(data) != 4+7*32 {
		t.Fatalf("calldata length = %d, want %d", len(data), 4+7*32)
	}

	offset := new(big.Int).SetBytes(data[4+32 : 4+64])
	if offset.Int64() != 4*32 {
		t.Fatalf("path offset = %d, want %d", offset.Int64(), 4*32)
	}
	length := new(big.Int).SetBytes(data[4+4*32 : 4+5*32])
	if length.Int64() != 2 {
		t.Fatalf("path length = %d, want 2", length.Int64())
	}
}

func TestEncodeSwapTokensForTokensLayout(t *testing.T) {
	path := []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	}
	data, err := EncodeSwapTokensForTokens(big.NewInt(10), big.NewInt(0), path, "0x3333333333333333333333333333333333333333", big.NewInt(1234))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != 4+8*32 {
		t.Fatalf("calldata length = %d, want %d", len(data), 4+8*32)
	}
	offset := new(big.Int).SetBytes(data[4+2*32 : 4+3*32])
	if offset.Int64() != 5*32 {
		t.Fatalf("path offset = %d, want %d", offset.Int64(), 5*32)
	}
}

func TestDecodeUint256RoundTrip(t *testing.T) {
	want := big.NewInt(123456789)
	got, err := DecodeUint256(uintWord(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Cmp(want) != 0 {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := DecodeUint256([]byte{1, 2, 3}); err == nil {
		t.Fatalf("short data should error")
	}
}

func TestDecodeAddress(t *testing.T) {
	addr := "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	w, err := addressWord(addr)
	if err != nil {
		t.Fatalf("word: %v", err)
	}
	got, err := DecodeAddress(w)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != addr {
		t.Fatalf("got %s, want %s", got, addr)
	}
}

func TestDecodeString(t *testing.T) {
	payload := "Wrapped Ether"
	ret := bytes.Join([][]byte{
		uintWord(big.NewInt(32)),
		uintWord(big.NewInt(int64(len(payload)))),
		append([]byte(payload), make([]byte, 32-len(payload)%32)...),
	}, nil)

	got, err := DecodeString(ret)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != payload {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestDecodeStringMalformedOffsets(t *testing.T) {
	bad := bytes.Join([][]byte{
		uintWord(big.NewInt(1 << 40)), // offset far past the buffer
		uintWord(big.NewInt(5)),
	}, nil)
	if _, err := DecodeString(bad); err == nil {
		t.Fatalf("out-of-range offset should error")
	}
}

func TestIsAddress(t *testing.T) {
	if !IsAddress("0x1111111111111111111111111111111111111111") {
		t.Fatalf("valid address rejected")
	}
	for _, s := range []string{"", "0x123", "1111111111111111111111111111111111111111ab", "0xZZ11111111111111111111111111111111111111"} {
		if IsAddress(s) {
			t.Fatalf("invalid address accepted: %q", s)
		}
	}
}
