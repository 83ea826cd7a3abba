package eth

import (
	"encoding/hex"
	"errors"
	"testing"
)

func TestParseRPCErrorInsufficientFunds(t *testing.T) {
	err := parseRPCError(-32000, "insufficient funds for gas * price + value", nil)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestParseRPCErrorRevertWithMessage(t *testing.T) {
	err := parseRPCError(3, "execution reverted: TRANSFER_FAILED", nil)
	reason, ok := IsRevert(err)
	if !ok {
		t.Fatalf("expected revert, got %v", err)
	}
	if reason != "TRANSFER_FAILED" {
		t.Fatalf("reason = %q, want TRANSFER_FAILED", reason)
	}
}

func TestParseRPCErrorRevertWithData(t *testing.T) {
	// ABI-encoded Error("no") payload.
	data := "0x" + hex.EncodeToString(errorStringSelector) +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"6e6f000000000000000000000000000000000000000000000000000000000000"

	err := parseRPCError(3, "execution reverted", data)
	reason, ok := IsRevert(err)
	if !ok || reason != "no" {
		t.Fatalf("got (%q, %v), want (no, true)", reason, ok)
	}
}

func TestParseRPCErrorOther(t *testing.T) {
	err := parseRPCError(-32601, "method not found", nil)
	if _, ok := IsRevert(err); ok {
		t.Fatalf("plain rpc error classified as revert")
	}
	if errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("plain rpc error classified as insufficient funds")
	}
}

func TestParseWei(t *testing.T) {
	v, err := ParseWei("100000000000000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.String() != "100000000000000000" {
		t.Fatalf("got %s", v)
	}
	if _, err := ParseWei("0.1"); err == nil {
		t.Fatalf("non-integer wei should error")
	}
}
