package compiler

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTreeCBORRoundTrip(t *testing.T) {
	root, err := DecodeXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("DecodeXML: %v", err)
	}

	data, err := MarshalTree(root)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	got, err := DecodeCBOR(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeCBOR: %v", err)
	}
	if !reflect.DeepEqual(got, root) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, root)
	}

	// The decoded tree must build exactly like the original.
	if _, err := Build(got); err != nil {
		t.Errorf("Build(decoded): %v", err)
	}
}

func TestMarshalTreeIsCanonical(t *testing.T) {
	a := NewNode("class", "name", "A", "parent", "Object")
	b := NewNode("class", "parent", "Object", "name", "A")

	da, err := MarshalTree(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := MarshalTree(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Error("equal trees encoded differently")
	}
}

func TestUnmarshalTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", []byte{0xa3, 0x01}},
		{"not a map", []byte{0x01}},
		{"nameless root", []byte{0xa0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := UnmarshalTree(tc.data); !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}
