package compiler

import (
	"errors"
	"strings"
	"testing"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<program language="SOL25" description="sample">
  <class name="Main" parent="Object">
    <method selector="run">
      <block arity="0">
        <assign order="1">
          <var name="x"/>
          <expr><literal class="Integer" value="3"/></expr>
        </assign>
      </block>
    </method>
  </class>
</program>`

func TestDecodeXML(t *testing.T) {
	root, err := DecodeXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("DecodeXML: %v", err)
	}
	if root.Name != "program" {
		t.Errorf("root = %q, want program", root.Name)
	}
	if v, _ := root.Attr("description"); v != "sample" {
		t.Errorf("description = %q, want sample", v)
	}
	if got := root.Count(); got != 8 {
		t.Errorf("Count() = %d, want 8", got)
	}

	class := root.Children[0]
	if name, _ := class.Attr("name"); name != "Main" {
		t.Errorf("class name = %q, want Main", name)
	}
	lit := class.Children[0].Children[0].Children[0].Children[1].Children[0]
	if lit.Name != "literal" {
		t.Fatalf("deepest node = %q, want literal", lit.Name)
	}
	if v, _ := lit.Attr("value"); v != "3" {
		t.Errorf("literal value = %q, want 3", v)
	}
}

func TestDecodeXMLKeepsEscapedText(t *testing.T) {
	src := `<program><class name="A" parent="Object"><method selector="run"><block arity="0">` +
		`<assign order="1"><var name="s"/><expr><literal class="String" value="a\nb &amp; &lt;c&gt;"/></expr></assign>` +
		`</block></method></class></program>`
	root, err := DecodeXML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeXML: %v", err)
	}
	lit := root.Children[0].Children[0].Children[0].Children[0].Children[1].Children[0]
	if v, _ := lit.Attr("value"); v != `a\nb & <c>` {
		t.Errorf("value = %q", v)
	}
}

func TestDecodeXMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"only declaration", `<?xml version="1.0"?>`},
		{"unclosed", `<program><class name="A" parent="Object">`},
		{"mismatched", `<program></class>`},
		{"two roots", `<program/><program/>`},
		{"garbage", `not xml at all <`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeXML(strings.NewReader(tc.src))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}
