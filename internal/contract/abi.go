package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ABIEntry is one ABI entry (function, event, etc.).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

func parseABI(data []byte) ([]ABIEntry, error) {
	var abi []ABIEntry
	if err := json.Unmarshal(data, &abi); err != nil {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '{' {
			return nil, fmt.Errorf("file is a JSON object, not an ABI array — if this is a Hardhat/Foundry artifact it must have an \"abi\" key")
		}
		return nil, fmt.Errorf("invalid ABI JSON: expected an array of function/event definitions, got parse error: %w", err)
	}
	return abi, nil
}

// --- ABI encoding ---

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (e ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// functionSelector computes the 4-byte selector for a function.
func functionSelector(fn *ABIEntry) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(fn.Signature()))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// EventTopic computes the 32-byte topic hash for an event entry.
func EventTopic(ev *ABIEntry) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(ev.Signature()))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// encodeCall builds calldata: 4-byte selector + head/tail encoded args.
// Dynamic types (string, bytes) go into the tail with an offset in the head.
func encodeCall(fn *ABIEntry, args []string) (string, error) {
	selector := functionSelector(fn)

	heads := make([]string, len(fn.Inputs))
	var tail strings.Builder
	headBytes := len(fn.Inputs) * 32

	for i, param := range fn.Inputs {
		var argStr string
		if i < len(args) {
			argStr = args[i]
		}
		if isDynamicType(param.Type) {
			offset := headBytes + tail.Len()/2
			heads[i] = fmt.Sprintf("%064x", offset)
			enc, err := encodeDynamic(param.Type, argStr)
			if err != nil {
				return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
			}
			tail.WriteString(enc)
		} else {
			enc, err := encodeParam(param.Type, argStr)
			if err != nil {
				return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
			}
			heads[i] = enc
		}
	}

	return selector + strings.Join(heads, "") + tail.String(), nil
}

func isDynamicType(typ string) bool {
	return typ == "string" || typ == "bytes"
}

// encodeParam encodes a single static ABI parameter value as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	val = strings.TrimPrefix(val, "0x")

	switch {
	case typ == "address":
		return fmt.Sprintf("%064s", val), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 0); !ok {
			return "", fmt.Errorf("invalid integer: %s", val)
		}
		if n.Sign() < 0 {
			return "", fmt.Errorf("negative integer not supported: %s", val)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		return fmt.Sprintf("%064d", 0), nil

	case typ == "bytes32":
		padded := fmt.Sprintf("%-64s", val)
		return padded[:64], nil

	default:
		return "", fmt.Errorf("unsupported static type: %s", typ)
	}
}

// encodeDynamic encodes a dynamic value as length word + right-padded data.
func encodeDynamic(typ, val string) (string, error) {
	var data []byte
	switch typ {
	case "string":
		data = []byte(val)
	case "bytes":
		b, err := hex.DecodeString(strings.TrimPrefix(val, "0x"))
		if err != nil {
			return "", fmt.Errorf("invalid bytes value: %w", err)
		}
		data = b
	default:
		return "", fmt.Errorf("unsupported dynamic type: %s", typ)
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("%064x", len(data)))
	out.WriteString(hex.EncodeToString(data))
	if pad := len(data) % 32; pad != 0 {
		out.WriteString(strings.Repeat("00", 32-pad))
	}
	return out.String(), nil
}

// decodeResult decodes the raw hex result into string values.
func decodeResult(fn *ABIEntry, hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}

	if len(fn.Outputs) == 0 {
		return nil, nil
	}

	var results []string
	offset := 0

	for _, out := range fn.Outputs {
		if offset+32 > len(data) {
			results = append(results, "")
			continue
		}

		word := data[offset : offset+32]
		offset += 32

		val, err := decodeWord(out.Type, word, data)
		if err != nil {
			results = append(results, "")
			continue
		}
		results = append(results, val)
	}

	return results, nil
}

func decodeWord(typ string, word []byte, fullData []byte) (string, error) {
	switch {
	case typ == "address":
		return "0x" + hex.EncodeToString(word[12:]), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int).SetBytes(word)
		return n.String(), nil

	case typ == "bool":
		if word[31] == 1 {
			return "true", nil
		}
		return "false", nil

	case typ == "string":
		// String uses an offset + length encoding.
		offsetVal := new(big.Int).SetBytes(word).Uint64()
		if int(offsetVal)+32 > len(fullData) {
			return "", nil
		}
		length := new(big.Int).SetBytes(fullData[offsetVal : offsetVal+32]).Uint64()
		start := offsetVal + 32
		if start+length > uint64(len(fullData)) {
			return "", nil
		}
		return string(fullData[start : start+length]), nil

	default:
		return "0x" + hex.EncodeToString(word), nil
	}
}

// hexToBytes converts a hex string (with or without 0x) to bytes.
func hexToBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

func bytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}
