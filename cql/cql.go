// Package cql implements the component query language, a small boolean
// expression language over component names. A query compiles to a
// filter.ComponentFilter, so anything a filter can express is reachable
// from a plain string:
//
//	CONTAINS(Position) & !CONTAINS(Marker)
//	EXACT(Position, Velocity) | ALL()
//
// Component names are resolved against the world's registered components
// at compile time; unknown names fail the compile.
package cql

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"

	"pkg.world.dev/keystone/filter"
	"pkg.world.dev/keystone/types"
)

// Resolver turns a component name from the query text into registered
// component metadata.
type Resolver func(name string) (types.ComponentMetadata, error)

type cqlOperator int

const (
	opAnd cqlOperator = iota
	opOr
)

var operatorMap = map[string]cqlOperator{"&": opAnd, "|": opOr}

// Capture tells the parser how to transform a parsed token into the
// operator type.
func (o *cqlOperator) Capture(s []string) error {
	if len(s) == 0 {
		return eris.New("invalid operator")
	}
	operator, ok := operatorMap[s[0]]
	if !ok {
		return eris.New("invalid operator")
	}
	*o = operator
	return nil
}

type cqlComponent struct {
	Name string `@Ident`
}

type cqlAll struct{}

func (a *cqlAll) Capture(values []string) error {
	if values[0] == "ALL" && values[1] == "(" && values[2] == ")" {
		*a = cqlAll{}
	}
	return nil
}

type cqlNot struct {
	SubExpression *cqlValue `"!" @@`
}

type cqlExact struct {
	Components []*cqlComponent `"EXACT" "(" (@@ ",")* @@ ")"`
}

type cqlContains struct {
	Components []*cqlComponent `"CONTAINS" "(" (@@ ",")* @@ ")"`
}

type cqlValue struct {
	All           *cqlAll      `@("ALL" "(" ")")`
	Exact         *cqlExact    `| @@`
	Contains      *cqlContains `| @@`
	Not           *cqlNot      `| @@`
	Subexpression *cqlTerm     `| "(" @@ ")"`
}

type cqlFactor struct {
	Base *cqlValue `@@`
}

type cqlOpFactor struct {
	Operator cqlOperator `@("&" | "|")`
	Factor   *cqlFactor  `@@`
}

type cqlTerm struct {
	Left  *cqlFactor     `@@`
	Right []*cqlOpFactor `@@*`
}

func (o cqlOperator) String() string {
	switch o {
	case opAnd:
		return "&"
	case opOr:
		return "|"
	}
	panic("unsupported operator")
}

func (a *cqlAll) String() string {
	return "ALL()"
}

func componentNames(components []*cqlComponent) string {
	names := make([]string, 0, len(components))
	for _, comp := range components {
		names = append(names, comp.Name)
	}
	return strings.Join(names, ", ")
}

func (e *cqlExact) String() string {
	return "EXACT(" + componentNames(e.Components) + ")"
}

func (e *cqlContains) String() string {
	return "CONTAINS(" + componentNames(e.Components) + ")"
}

func (v *cqlValue) String() string {
	switch {
	case v.Exact != nil:
		return v.Exact.String()
	case v.Contains != nil:
		return v.Contains.String()
	case v.All != nil:
		return v.All.String()
	case v.Not != nil:
		return "!(" + v.Not.SubExpression.String() + ")"
	case v.Subexpression != nil:
		return "(" + v.Subexpression.String() + ")"
	}
	panic("cql: value node with no alternative set")
}

func (f *cqlFactor) String() string {
	return f.Base.String()
}

func (o *cqlOpFactor) String() string {
	return fmt.Sprintf("%s %s", o.Operator, o.Factor)
}

func (t *cqlTerm) String() string {
	out := []string{t.Left.String()}
	for _, r := range t.Right {
		out = append(out, r.String())
	}
	return strings.Join(out, " ")
}

var parser = participle.MustBuild[cqlTerm]()

// resolveComponents maps parsed component names to filter wrappers through
// the resolver, failing on the first unknown name.
func resolveComponents(components []*cqlComponent, resolve Resolver) ([]filter.ComponentWrapper, error) {
	acc := make([]filter.ComponentWrapper, 0, len(components))
	for _, comp := range components {
		meta, err := resolve(comp.Name)
		if err != nil {
			return nil, eris.Wrap(err, "")
		}
		acc = append(acc, filter.ComponentWrapper{Component: meta})
	}
	return acc, nil
}

func valueToFilter(value *cqlValue, resolve Resolver) (filter.ComponentFilter, error) {
	switch {
	case value.Not != nil:
		inner, err := valueToFilter(value.Not.SubExpression, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Not(inner), nil
	case value.Exact != nil:
		if len(value.Exact.Components) == 0 {
			return nil, eris.New("EXACT cannot have zero parameters")
		}
		components, err := resolveComponents(value.Exact.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Exact(components...), nil
	case value.Contains != nil:
		if len(value.Contains.Components) == 0 {
			return nil, eris.New("CONTAINS cannot have zero parameters")
		}
		components, err := resolveComponents(value.Contains.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Contains(components...), nil
	case value.All != nil:
		return filter.All(), nil
	case value.Subexpression != nil:
		return termToFilter(value.Subexpression, resolve)
	}
	return nil, eris.New("unknown error during conversion from CQL AST to ComponentFilter")
}

func termToFilter(term *cqlTerm, resolve Resolver) (filter.ComponentFilter, error) {
	if term.Left == nil {
		return nil, eris.New("not enough values in expression")
	}
	acc, err := valueToFilter(term.Left.Base, resolve)
	if err != nil {
		return nil, err
	}
	for _, opFactor := range term.Right {
		next, err := valueToFilter(opFactor.Factor.Base, resolve)
		if err != nil {
			return nil, err
		}
		switch opFactor.Operator {
		case opAnd:
			acc = filter.And(acc, next)
		case opOr:
			acc = filter.Or(acc, next)
		default:
			return nil, eris.New("invalid operator")
		}
	}
	return acc, nil
}

// Parse compiles query text into a component filter. Component names are
// resolved eagerly, so a query naming an unregistered component fails here
// rather than at match time.
func Parse(cqlText string, resolve Resolver) (filter.ComponentFilter, error) {
	term, err := parser.ParseString("", cqlText)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return termToFilter(term, resolve)
}
