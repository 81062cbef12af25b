// Package abi models contract ABIs and converts Go values to and from calldata.
package abi

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
)

var (
	ErrAbiParse         = errors.New("abi parse error")
	ErrTypeNotFound     = errors.New("abi type not found")
	ErrFunctionNotFound = errors.New("abi function not found")
	ErrEventNotFound    = errors.New("abi event not found")
	ErrEncode           = errors.New("encode failed")
	ErrDecode           = errors.New("decode failed")
)

type ParseError struct {
	Entry  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Entry == "" {
		return "abi: " + e.Reason
	}
	return fmt.Sprintf("abi: %s: %s", e.Entry, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrAbiParse }

type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("abi: type %q is not defined", e.Name)
}

func (e *TypeNotFoundError) Unwrap() error { return ErrTypeNotFound }

// EncodeError names the dotted path of the value that could not be encoded.
type EncodeError struct {
	Field  string
	Reason string
}

func (e *EncodeError) Error() string {
	if e.Field == "" {
		return "encode: " + e.Reason
	}
	return fmt.Sprintf("encode %s: %s", e.Field, e.Reason)
}

func (e *EncodeError) Unwrap() error { return ErrEncode }

// DecodeError carries the index of the element where decoding failed.
type DecodeError struct {
	Position int
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at element %d: %s", e.Position, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

type Param struct {
	Name string
	Type Type
}

// TypeDef is a struct or enum definition. For enums Members are the variants in index
// order, with Unit as the payload of variants that carry none.
type TypeDef struct {
	Name    string
	Kind    Kind
	Members []Param
}

func (d *TypeDef) member(name string) (int, bool) {
	for i, m := range d.Members {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

type FunctionKind uint8

const (
	FunctionExternal FunctionKind = iota
	FunctionConstructor
	FunctionL1Handler
)

type Function struct {
	Name            string
	Kind            FunctionKind
	Interface       string
	Inputs          []Param
	Outputs         []Param
	StateMutability string

	legacy bool
	types  map[string]*TypeDef
}

// Selector is the entry point selector the function is called with.
func (f *Function) Selector() *felt.Felt {
	if f.Kind == FunctionConstructor {
		return SelectorFromName("constructor")
	}
	return SelectorFromName(f.Name)
}

// IsView reports whether the function is declared read only.
func (f *Function) IsView() bool {
	return f.StateMutability == "view"
}

type MemberKind uint8

const (
	MemberData MemberKind = iota
	MemberKey
	MemberNested
	MemberFlat
)

type EventMember struct {
	Name string
	Type Type
	Kind MemberKind
}

// Event is a struct event or an enum of events. Legacy events carry their members as
// key and data lists.
type Event struct {
	Name     string
	Kind     Kind
	Members  []EventMember
	Selector *felt.Felt
	Legacy   bool
}

// Abi is immutable once parsed and can be shared between goroutines.
type Abi struct {
	Functions []*Function
	Events    []*Event
	Types     map[string]*TypeDef
	Legacy    bool

	constructor *Function
	byName      map[string]*Function
}

// Function looks an external or l1 handler function up by name. Functions declared
// inside interfaces are found by their plain name.
func (a *Abi) Function(name string) (*Function, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return f, nil
}

// Constructor returns the declared constructor, if any.
func (a *Abi) Constructor() (*Function, bool) {
	return a.constructor, a.constructor != nil
}

// Event looks an event up by its full or short name.
func (a *Abi) Event(name string) (*Event, bool) {
	for _, e := range a.Events {
		if e.Name == name || shortName(e.Name) == name {
			return e, true
		}
	}
	return nil, false
}
