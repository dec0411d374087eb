package vm

import (
	"strconv"
	"strings"
	"testing"

	"github.com/chazu/sol25/compiler"
)

// ---------------------------------------------------------------------------
// Program tree builders
// ---------------------------------------------------------------------------

type node = compiler.Node

func program(classes ...*node) *node {
	return compiler.NewNode("program", "language", "SOL25").Add(classes...)
}

func class(name, parent string, methods ...*node) *node {
	return compiler.NewNode("class", "name", name, "parent", parent).Add(methods...)
}

func method(selector string, body *node) *node {
	return compiler.NewNode("method", "selector", selector).Add(body)
}

// body builds a block from parameter names followed by assignments; the
// orders are assigned from the argument positions.
func body(params []string, assigns ...*node) *node {
	b := compiler.NewNode("block", "arity", strconv.Itoa(len(params)))
	for i, p := range params {
		b.Add(compiler.NewNode("parameter", "order", strconv.Itoa(i+1), "name", p))
	}
	for i, a := range assigns {
		a.Attrs["order"] = strconv.Itoa(i + 1)
		b.Add(a)
	}
	return b
}

func assign(target string, value *node) *node {
	return compiler.NewNode("assign", "order", "0").Add(compiler.NewNode("var", "name", target), value)
}

func expr(child *node) *node {
	return compiler.NewNode("expr").Add(child)
}

func intLit(n int) *node {
	return expr(compiler.NewNode("literal", "class", "Integer", "value", strconv.Itoa(n)))
}

func strLit(s string) *node {
	return expr(compiler.NewNode("literal", "class", "String", "value", s))
}

func lit(class, value string) *node {
	return expr(compiler.NewNode("literal", "class", class, "value", value))
}

func classRef(name string) *node {
	return lit(compiler.ClassLiteral, name)
}

func ref(name string) *node {
	return expr(compiler.NewNode("var", "name", name))
}

func blockExpr(params []string, assigns ...*node) *node {
	return expr(body(params, assigns...))
}

func send(selector string, recv *node, args ...*node) *node {
	s := compiler.NewNode("send", "selector", selector).Add(recv)
	for i, a := range args {
		s.Add(compiler.NewNode("arg", "order", strconv.Itoa(i+1)).Add(a))
	}
	return expr(s)
}

// printOf sends asString then print to the value of e.
func printOf(e *node) *node {
	return send("print", send("asString", e))
}

func mainClass(assigns ...*node) *node {
	return class("Main", "Object", method("run", body(nil, assigns...)))
}

// ---------------------------------------------------------------------------
// Running programs
// ---------------------------------------------------------------------------

func loadProgram(t *testing.T, root *node) *VM {
	t.Helper()
	prog, err := compiler.Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	vm := NewVM()
	if err := vm.Load(prog); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return vm
}

// runProgram loads root and runs it with the given input text.
func runProgram(t *testing.T, root *node, input string) (string, error) {
	t.Helper()
	vm := loadProgram(t, root)
	var out strings.Builder
	interp := vm.NewInterpreter(NewLineInput(strings.NewReader(input)), &out)
	_, err := interp.Run()
	return out.String(), err
}

// runMain runs a Main>>run made of assigns and returns the printed output.
func runMain(t *testing.T, assigns ...*node) (string, error) {
	t.Helper()
	return runProgram(t, program(mainClass(assigns...)), "")
}

func mustRun(t *testing.T, assigns ...*node) string {
	t.Helper()
	out, err := runMain(t, assigns...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return out
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want %s", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("kind = %s (%v), want %s", got, err, kind)
	}
}
