package compiler

import (
	"fmt"
	"sort"
	"strconv"
)

// ---------------------------------------------------------------------------
// Build: generic tree -> typed AST
// ---------------------------------------------------------------------------

// LanguageName is the only value accepted for the program "language" attribute.
const LanguageName = "SOL25"

// Literal class tags accepted in <literal class="...">.
var literalClasses = map[string]bool{
	"Integer":    true,
	"String":     true,
	"Nil":        true,
	"True":       true,
	"False":      true,
	ClassLiteral: true,
}

// Build types a generic program tree. Parameters, assignments and send
// arguments are sorted by their order attribute.
func Build(root *Node) (*Program, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	if root.Name != "program" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <program>", ErrUnexpected, root.Name)
	}

	prog := &Program{
		Language: LanguageName,
		Classes:  make(map[string]*Class),
	}
	if lang, ok := root.Attr("language"); ok {
		if lang != LanguageName {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrUnexpected, lang)
		}
	}
	prog.Description, _ = root.Attr("description")

	for _, child := range root.Children {
		if child.Name != "class" {
			return nil, fmt.Errorf("%w: <%s> inside <program>", ErrUnexpected, child.Name)
		}
		class, err := buildClass(child)
		if err != nil {
			return nil, err
		}
		if _, dup := prog.Classes[class.Name]; dup {
			return nil, fmt.Errorf("%w: class %s declared twice", ErrUnexpected, class.Name)
		}
		prog.Classes[class.Name] = class
	}
	return prog, nil
}

func buildClass(n *Node) (*Class, error) {
	name, err := n.RequireAttr("name")
	if err != nil {
		return nil, err
	}
	parent, err := n.RequireAttr("parent")
	if err != nil {
		return nil, err
	}

	class := &Class{
		Name:    name,
		Parent:  parent,
		Methods: make(map[string]*Method),
	}
	for _, child := range n.Children {
		if child.Name != "method" {
			return nil, fmt.Errorf("%w: <%s> inside class %s", ErrUnexpected, child.Name, name)
		}
		m, err := buildMethod(child)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", name, err)
		}
		if _, dup := class.Methods[m.Selector]; dup {
			return nil, fmt.Errorf("%w: class %s defines %s twice", ErrUnexpected, name, m.Selector)
		}
		class.Methods[m.Selector] = m
	}
	return class, nil
}

func buildMethod(n *Node) (*Method, error) {
	selector, err := n.RequireAttr("selector")
	if err != nil {
		return nil, err
	}

	blocks := n.ChildrenNamed("block")
	switch {
	case len(blocks) == 0:
		return nil, fmt.Errorf("%w: method %s has no <block>", ErrMalformed, selector)
	case len(blocks) > 1 || len(n.Children) > 1:
		return nil, fmt.Errorf("%w: method %s must contain exactly one <block>", ErrUnexpected, selector)
	}

	body, err := buildBlock(blocks[0])
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", selector, err)
	}
	if body.Arity() != SelectorArity(selector) {
		return nil, fmt.Errorf("%w: method %s takes %d arguments but its block declares %d",
			ErrUnexpected, selector, SelectorArity(selector), body.Arity())
	}
	return &Method{Selector: selector, Body: body}, nil
}

type orderedParam struct {
	order int
	name  string
}

func buildBlock(n *Node) (*Block, error) {
	var params []orderedParam
	block := &Block{}
	seenParam := make(map[int]bool)
	seenAssign := make(map[int]bool)

	for _, child := range n.Children {
		switch child.Name {
		case "parameter":
			order, err := child.Order()
			if err != nil {
				return nil, err
			}
			name, err := child.RequireAttr("name")
			if err != nil {
				return nil, err
			}
			if seenParam[order] {
				return nil, fmt.Errorf("%w: parameter order %d repeated", ErrUnexpected, order)
			}
			seenParam[order] = true
			params = append(params, orderedParam{order: order, name: name})

		case "assign":
			a, err := buildAssign(child)
			if err != nil {
				return nil, err
			}
			if seenAssign[a.Order] {
				return nil, fmt.Errorf("%w: assignment order %d repeated", ErrUnexpected, a.Order)
			}
			seenAssign[a.Order] = true
			block.Assigns = append(block.Assigns, a)

		default:
			return nil, fmt.Errorf("%w: <%s> inside <block>", ErrUnexpected, child.Name)
		}
	}

	sort.Slice(params, func(i, j int) bool { return params[i].order < params[j].order })
	for _, p := range params {
		block.Params = append(block.Params, p.name)
	}
	sort.Slice(block.Assigns, func(i, j int) bool { return block.Assigns[i].Order < block.Assigns[j].Order })

	if raw, ok := n.Attr("arity"); ok {
		arity, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: block has non-numeric arity %q", ErrMalformed, raw)
		}
		if arity != len(block.Params) {
			return nil, fmt.Errorf("%w: block arity %d but %d parameters", ErrUnexpected, arity, len(block.Params))
		}
	}
	return block, nil
}

func buildAssign(n *Node) (*Assign, error) {
	order, err := n.Order()
	if err != nil {
		return nil, err
	}

	vars := n.ChildrenNamed("var")
	exprs := n.ChildrenNamed("expr")
	if len(vars) == 0 || len(exprs) == 0 {
		return nil, fmt.Errorf("%w: assignment %d needs <var> and <expr>", ErrMalformed, order)
	}
	if len(vars) > 1 || len(exprs) > 1 || len(n.Children) > 2 {
		return nil, fmt.Errorf("%w: assignment %d has extra elements", ErrUnexpected, order)
	}

	target, err := vars[0].RequireAttr("name")
	if err != nil {
		return nil, err
	}
	value, err := buildExpr(exprs[0])
	if err != nil {
		return nil, fmt.Errorf("assignment to %s: %w", target, err)
	}
	return &Assign{Order: order, Target: target, Value: value}, nil
}

func buildExpr(n *Node) (Expr, error) {
	switch len(n.Children) {
	case 0:
		return nil, fmt.Errorf("%w: empty <%s>", ErrMalformed, n.Name)
	case 1:
	default:
		return nil, fmt.Errorf("%w: <%s> holds %d alternatives", ErrUnexpected, n.Name, len(n.Children))
	}

	child := n.Children[0]
	switch child.Name {
	case "literal":
		return buildLiteral(child)
	case "var":
		name, err := child.RequireAttr("name")
		if err != nil {
			return nil, err
		}
		return &Variable{Name: name}, nil
	case "expr":
		inner, err := buildExpr(child)
		if err != nil {
			return nil, err
		}
		return &Group{Inner: inner}, nil
	case "send":
		return buildSend(child)
	case "block":
		return buildBlock(child)
	default:
		return nil, fmt.Errorf("%w: <%s> inside <%s>", ErrUnexpected, child.Name, n.Name)
	}
}

func buildLiteral(n *Node) (*Literal, error) {
	class, err := n.RequireAttr("class")
	if err != nil {
		return nil, err
	}
	value, err := n.RequireAttr("value")
	if err != nil {
		return nil, err
	}
	if !literalClasses[class] {
		return nil, fmt.Errorf("%w: unknown literal class %q", ErrUnexpected, class)
	}
	if class == "Integer" {
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: integer literal %q", ErrUnexpected, value)
		}
	}
	return &Literal{Class: class, Value: value}, nil
}

type orderedArg struct {
	order int
	expr  Expr
}

func buildSend(n *Node) (*Send, error) {
	selector, err := n.RequireAttr("selector")
	if err != nil {
		return nil, err
	}

	send := &Send{Selector: selector}
	var args []orderedArg
	seen := make(map[int]bool)

	for _, child := range n.Children {
		switch child.Name {
		case "expr":
			if send.Receiver != nil {
				return nil, fmt.Errorf("%w: send %s has two receivers", ErrUnexpected, selector)
			}
			recv, err := buildExpr(child)
			if err != nil {
				return nil, fmt.Errorf("receiver of %s: %w", selector, err)
			}
			send.Receiver = recv

		case "arg":
			order, err := child.Order()
			if err != nil {
				return nil, err
			}
			if seen[order] {
				return nil, fmt.Errorf("%w: send %s repeats argument order %d", ErrUnexpected, selector, order)
			}
			seen[order] = true
			exprs := child.ChildrenNamed("expr")
			if len(exprs) != 1 || len(child.Children) != 1 {
				return nil, fmt.Errorf("%w: argument %d of %s must wrap one <expr>", ErrMalformed, order, selector)
			}
			e, err := buildExpr(exprs[0])
			if err != nil {
				return nil, fmt.Errorf("argument %d of %s: %w", order, selector, err)
			}
			args = append(args, orderedArg{order: order, expr: e})

		default:
			return nil, fmt.Errorf("%w: <%s> inside <send>", ErrUnexpected, child.Name)
		}
	}

	if send.Receiver == nil {
		return nil, fmt.Errorf("%w: send %s has no receiver", ErrMalformed, selector)
	}

	sort.Slice(args, func(i, j int) bool { return args[i].order < args[j].order })
	for _, a := range args {
		send.Args = append(send.Args, a.expr)
	}

	// from: arity is checked at evaluation time so it surfaces as an
	// evaluation failure rather than a load failure.
	if selector != "from:" && len(send.Args) != SelectorArity(selector) {
		return nil, fmt.Errorf("%w: send %s with %d arguments", ErrUnexpected, selector, len(send.Args))
	}
	return send, nil
}
