package compiler

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical encoding so equal trees produce equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("compiler: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalTree serializes a generic tree to CBOR bytes.
func MarshalTree(n *Node) ([]byte, error) {
	return cborEncMode.Marshal(n)
}

// UnmarshalTree deserializes a generic tree from CBOR bytes.
func UnmarshalTree(data []byte) (*Node, error) {
	var n Node
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: cbor: %v", ErrMalformed, err)
	}
	if n.Name == "" {
		return nil, fmt.Errorf("%w: cbor: root element has no name", ErrMalformed)
	}
	return &n, nil
}

// DecodeCBOR reads a whole CBOR tree snapshot from r.
func DecodeCBOR(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cbor: %w", err)
	}
	return UnmarshalTree(data)
}
