// Package validate binds caller-supplied arguments against a declared
// signature.
//
// Binding follows declaration order: positional values first, then keyword
// values by name, then defaults for anything still unset. The result is one
// concrete value per declared parameter, ready for invocation. Validation is
// a pure function of its inputs; it never touches the target callable.
package validate

import (
	"fmt"
	"reflect"

	"github.com/watershed117/eventloop/internal/registry"
)

// Error describes a rejected argument set. Param names the offending
// parameter when one can be identified; it is empty for arity errors.
type Error struct {
	Param   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Bind validates args and kwargs against sig and returns the bound values
// in declaration order. Type declarations are enforced: a value whose
// runtime type is not assignable to the declared parameter type is
// rejected.
func Bind(sig registry.Signature, args []any, kwargs map[string]any) ([]any, error) {
	bound, set, err := bindValues(sig, args, kwargs)
	if err != nil {
		return nil, err
	}

	for i, p := range sig.Params {
		if !set[i] {
			continue // defaults were checked at registration
		}
		if !assignable(bound[i], p.Type) {
			return nil, &Error{
				Param: p.Name,
				Message: fmt.Sprintf("parameter %q expects type %s, got %s",
					p.Name, p.Type, typeName(bound[i])),
			}
		}
	}
	return bound, nil
}

// BindUnchecked binds without type enforcement. Used when validation is
// disabled on the loop: arity and names are still required to place values,
// but a type mismatch surfaces at execution time instead.
func BindUnchecked(sig registry.Signature, args []any, kwargs map[string]any) ([]any, error) {
	bound, _, err := bindValues(sig, args, kwargs)
	return bound, err
}

// bindValues performs the positional/keyword/default binding common to Bind
// and BindUnchecked. The returned set slice marks parameters bound by the
// caller (as opposed to filled from a default).
func bindValues(sig registry.Signature, args []any, kwargs map[string]any) ([]any, []bool, error) {
	params := sig.Params
	if len(args) > len(params) {
		return nil, nil, &Error{
			Message: fmt.Sprintf("too many positional arguments: got %d, want at most %d",
				len(args), len(params)),
		}
	}

	bound := make([]any, len(params))
	set := make([]bool, len(params))

	for i, v := range args {
		bound[i] = v
		set[i] = true
	}

	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p.Name] = i
	}
	for name, v := range kwargs {
		i, ok := index[name]
		if !ok {
			return nil, nil, &Error{
				Param:   name,
				Message: fmt.Sprintf("unknown keyword argument %q", name),
			}
		}
		if set[i] {
			return nil, nil, &Error{
				Param:   name,
				Message: fmt.Sprintf("multiple values for parameter %q", name),
			}
		}
		bound[i] = v
		set[i] = true
	}

	for i, p := range params {
		if set[i] {
			continue
		}
		if !p.HasDefault {
			return nil, nil, &Error{
				Param:   p.Name,
				Message: fmt.Sprintf("missing required argument %q", p.Name),
			}
		}
		bound[i] = p.Default
	}

	return bound, set, nil
}

// assignable reports whether val can be passed for a parameter of type t.
// nil is accepted for nilable kinds and interfaces.
func assignable(val any, t reflect.Type) bool {
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
