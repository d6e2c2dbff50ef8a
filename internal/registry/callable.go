package registry

import (
	"fmt"
	"reflect"
)

// Param describes one declared parameter of a callable: its name, its
// reflected type (filled in from the func at construction), and an optional
// default value that makes the parameter optional.
type Param struct {
	Name       string
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// Required declares a parameter with no default value.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional declares a parameter with a default value. The default's type
// must be assignable to the func's parameter type, checked at construction.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Signature is the declared parameter list of a callable, in declaration
// order. It is the input to the argument validator.
type Signature struct {
	Params []Param
}

// Callable pairs a Go func with its declared signature.
//
// Accepted func shapes:
//   - zero, one, or two results
//   - with two results, the second must be error
//   - a single result may be a value or an error
//   - variadic funcs are rejected (keyword binding needs a fixed arity)
type Callable struct {
	name string
	fn   reflect.Value
	sig  Signature

	numOut   int
	errIndex int // index of the error result, -1 if none
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// NewCallable builds a callable from a func and its parameter specs.
//
// Each spec is matched positionally against the func's inputs and its Type
// field is filled from the func. The spec count must equal the func's arity.
// Passing no specs synthesizes names arg1..argN with no defaults.
func NewCallable(name string, fn any, params ...Param) (*Callable, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("method %s: target is %T, not a func", name, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("method %s: variadic funcs are not supported", name)
	}

	if len(params) == 0 && t.NumIn() > 0 {
		params = make([]Param, t.NumIn())
		for i := range params {
			params[i] = Param{Name: fmt.Sprintf("arg%d", i+1)}
		}
	}
	if len(params) != t.NumIn() {
		return nil, fmt.Errorf("method %s: %d parameter specs for func with %d parameters", name, len(params), t.NumIn())
	}

	sig := Signature{Params: make([]Param, len(params))}
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("method %s: parameter %d has no name", name, i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("method %s: duplicate parameter name %q", name, p.Name)
		}
		seen[p.Name] = true

		p.Type = t.In(i)
		if p.HasDefault {
			if !valueAssignable(p.Default, p.Type) {
				return nil, fmt.Errorf("method %s: default for parameter %q is %s, want %s",
					name, p.Name, typeName(p.Default), p.Type)
			}
		}
		sig.Params[i] = p
	}

	errIndex := -1
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errType {
			errIndex = 0
		}
	case 2:
		if t.Out(1) != errType {
			return nil, fmt.Errorf("method %s: second result must be error, got %s", name, t.Out(1))
		}
		errIndex = 1
	default:
		return nil, fmt.Errorf("method %s: funcs with %d results are not supported", name, t.NumOut())
	}

	return &Callable{
		name:     name,
		fn:       v,
		sig:      sig,
		numOut:   t.NumOut(),
		errIndex: errIndex,
	}, nil
}

// Name returns the callable's registered name.
func (c *Callable) Name() string {
	return c.name
}

// Signature returns the declared parameter list.
func (c *Callable) Signature() Signature {
	return c.sig
}

// Call invokes the func with one bound value per declared parameter, in
// declaration order. The caller is expected to have run the validator (or
// to accept a panic from reflect on a type mismatch when validation is
// disabled); panics are not recovered here.
//
// Returns the func's value result (nil if it has none) and its error result
// (nil if it has none or returned nil).
func (c *Callable) Call(bound []any) (any, error) {
	if len(bound) != len(c.sig.Params) {
		return nil, fmt.Errorf("method %s: %d bound values for %d parameters", c.name, len(bound), len(c.sig.Params))
	}

	in := make([]reflect.Value, len(bound))
	for i, val := range bound {
		in[i] = argValue(val, c.sig.Params[i].Type)
	}

	out := c.fn.Call(in)

	var callErr error
	if c.errIndex >= 0 {
		if e := out[c.errIndex]; !e.IsNil() {
			callErr = e.Interface().(error)
		}
	}

	// First result is the value unless it is the (sole) error result.
	if c.numOut > 0 && c.errIndex != 0 {
		return out[0].Interface(), callErr
	}
	return nil, callErr
}

// argValue converts a bound value to a reflect.Value of the parameter type.
// A nil value maps to the type's zero value so that nil defaults and nil
// arguments for pointer, map, slice, and interface parameters work.
func argValue(val any, t reflect.Type) reflect.Value {
	if val == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(val)
}

// valueAssignable reports whether val can be passed for a parameter of
// type t. nil is accepted for nilable kinds and for interfaces.
func valueAssignable(val any, t reflect.Type) bool {
	if val == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
			return true
		default:
			return false
		}
	}
	return reflect.TypeOf(val).AssignableTo(t)
}

// typeName renders the dynamic type of a value for error messages.
func typeName(val any) string {
	if val == nil {
		return "nil"
	}
	return reflect.TypeOf(val).String()
}
