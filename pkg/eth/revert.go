package eth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// RevertError is returned by Call when the node reports that the call would
// revert. Reason carries the human-readable cause when one could be decoded.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

// ErrInsufficientFunds marks call failures caused only by the dummy sender
// having no balance. For eth_call probes this means the call path itself is
// valid.
var ErrInsufficientFunds = errors.New("insufficient funds for call")

// IsRevert reports whether err is a contract revert and returns its reason.
func IsRevert(err error) (string, bool) {
	var re *RevertError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}

// errorStringSelector is the 4-byte selector of Error(string), the payload
// solidity attaches to require(.., "reason") reverts.
var errorStringSelector = Selector("Error(string)")

// decodeRevertData extracts the reason string from revert return data.
func decodeRevertData(data string) string {
	s := strings.TrimPrefix(data, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) < 4 {
		return ""
	}
	if !strings.EqualFold(hex.EncodeToString(raw[:4]), hex.EncodeToString(errorStringSelector)) {
		return ""
	}
	reason, err := DecodeString(raw[4:])
	if err != nil {
		return ""
	}
	return reason
}

// parseRPCError maps a JSON-RPC error on eth_call into a typed error.
// Node implementations disagree on how they report reverts; geth puts the
// return data in the error's data field, others bake the reason into the
// message.
func parseRPCError(code int, message string, data any) error {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "insufficient funds") {
		return ErrInsufficientFunds
	}

	if strings.Contains(lower, "execution reverted") || strings.Contains(lower, "revert") {
		reason := ""
		if ds, ok := data.(string); ok && strings.HasPrefix(ds, "0x") {
			reason = decodeRevertData(ds)
		}
		if reason == "" {
			reason = reasonFromMessage(message)
		}
		return &RevertError{Reason: reason}
	}

	return fmt.Errorf("rpc error %d: %s", code, message)
}

// reasonFromMessage strips the standard "execution reverted:" prefix, leaving
// whatever cause the node appended.
func reasonFromMessage(message string) string {
	if i := strings.Index(message, ":"); i >= 0 {
		return strings.TrimSpace(message[i+1:])
	}
	return ""
}

// ParseWei parses a decimal wei amount.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}
