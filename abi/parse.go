package abi

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

type rawParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
}

type rawEntry struct {
	Type                  string     `json:"type"`
	Name                  string     `json:"name"`
	Inputs                []rawParam `json:"inputs"`
	Outputs               []rawParam `json:"outputs"`
	Items                 []rawEntry `json:"items"`
	Members               []rawParam `json:"members"`
	Variants              []rawParam `json:"variants"`
	Kind                  string     `json:"kind"`
	Keys                  []rawParam `json:"keys"`
	Data                  []rawParam `json:"data"`
	StateMutability       string     `json:"state_mutability"`
	LegacyStateMutability string     `json:"stateMutability"`
}

var cairo1Builtins = map[string]Type{
	"core::felt252":                                     Felt,
	"core::bool":                                        Bool,
	"core::integer::u8":                                 Uint(8),
	"core::integer::u16":                                Uint(16),
	"core::integer::u32":                                Uint(32),
	"core::integer::usize":                              Uint(32),
	"core::integer::u64":                                Uint(64),
	"core::integer::u128":                               Uint(128),
	"core::integer::i8":                                 Int(8),
	"core::integer::i16":                                Int(16),
	"core::integer::i32":                                Int(32),
	"core::integer::i64":                                Int(64),
	"core::integer::i128":                               Int(128),
	"core::integer::u256":                               Uint256,
	"core::starknet::contract_address::ContractAddress": ContractAddress,
	"core::starknet::class_hash::ClassHash":             ClassHash,
	"core::starknet::eth_address::EthAddress":           Uint(160),
	"core::starknet::storage_access::StorageAddress":    Felt,
	"core::bytes_31::bytes31":                           Uint(248),
	"core::byte_array::ByteArray":                       ByteArray,
}

type parser struct {
	legacy bool
	raw    map[string]rawEntry
	types  map[string]*TypeDef
}

type located struct {
	rawEntry
	iface string
}

// Parse reads a Cairo 1 or legacy Cairo 0 ABI. The document may also be a JSON string
// holding the ABI, as Sierra classes carry it.
func Parse(data []byte) (*Abi, error) {
	var entries []rawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var doc string
		if json.Unmarshal(data, &doc) != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
		if err = json.Unmarshal([]byte(doc), &entries); err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
	}

	p := &parser{
		legacy: isLegacy(entries),
		raw:    make(map[string]rawEntry),
		types:  make(map[string]*TypeDef),
	}
	return p.parse(entries)
}

func isLegacy(entries []rawEntry) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		switch {
		case e.Type == "interface", e.Type == "impl", e.Type == "enum", e.Kind != "":
			return false
		case e.StateMutability != "":
			return false
		}
		for _, group := range [][]rawParam{e.Inputs, e.Outputs, e.Members, e.Data, e.Keys} {
			for _, param := range group {
				if strings.Contains(param.Type, "::") {
					return false
				}
			}
		}
	}
	return true
}

func flatten(entries []rawEntry) []located {
	var out []located
	for _, e := range entries {
		if e.Type == "interface" {
			for _, item := range e.Items {
				out = append(out, located{rawEntry: item, iface: e.Name})
			}
			continue
		}
		out = append(out, located{rawEntry: e})
	}
	return out
}

func (p *parser) parse(entries []rawEntry) (*Abi, error) {
	flat := flatten(entries)
	for _, e := range flat {
		if e.Type != "struct" && e.Type != "enum" {
			continue
		}
		if _, dup := p.raw[e.Name]; dup {
			return nil, &ParseError{Entry: e.Name, Reason: "defined twice"}
		}
		p.raw[e.Name] = e.rawEntry
	}

	for _, name := range slices.Sorted(maps.Keys(p.raw)) {
		e := p.raw[name]
		def := &TypeDef{Name: name, Kind: KindStruct}
		members := e.Members
		if e.Type == "enum" {
			def.Kind = KindEnum
			members = e.Variants
		}
		for _, m := range members {
			t, err := p.typeOf(m.Type)
			if err != nil {
				return nil, withEntry(err, name)
			}
			def.Members = append(def.Members, Param{Name: m.Name, Type: t})
		}
		p.types[name] = def
	}
	if err := checkCycles(p.types); err != nil {
		return nil, err
	}

	a := &Abi{
		Types:  p.types,
		Legacy: p.legacy,
		byName: make(map[string]*Function),
	}
	for _, e := range flat {
		switch e.Type {
		case "function", "l1_handler", "constructor":
			f, err := p.function(e)
			if err != nil {
				return nil, withEntry(err, e.Name)
			}
			a.Functions = append(a.Functions, f)
			if f.Kind == FunctionConstructor {
				a.constructor = f
			} else if _, dup := a.byName[f.Name]; !dup {
				a.byName[f.Name] = f
			}
		case "event":
			ev, err := p.event(e.rawEntry)
			if err != nil {
				return nil, withEntry(err, e.Name)
			}
			a.Events = append(a.Events, ev)
		case "struct", "enum", "impl":
		default:
			return nil, &ParseError{Entry: e.Name, Reason: fmt.Sprintf("unknown entry type %q", e.Type)}
		}
	}
	return a, nil
}

func withEntry(err error, entry string) error {
	if pe, ok := err.(*ParseError); ok && pe.Entry == "" {
		return &ParseError{Entry: entry, Reason: pe.Reason}
	}
	return err
}

func (p *parser) function(e located) (*Function, error) {
	f := &Function{
		Name:            e.Name,
		Interface:       e.iface,
		StateMutability: e.StateMutability,
		legacy:          p.legacy,
		types:           p.types,
	}
	if f.StateMutability == "" {
		f.StateMutability = e.LegacyStateMutability
	}
	switch e.Type {
	case "constructor":
		f.Kind = FunctionConstructor
	case "l1_handler":
		f.Kind = FunctionL1Handler
	}

	var err error
	if f.Inputs, err = p.params(e.Inputs); err != nil {
		return nil, err
	}
	if f.Outputs, err = p.params(e.Outputs); err != nil {
		return nil, err
	}
	return f, nil
}

// params parses a parameter list. Legacy arrays are written as a <name>_len felt followed
// by a pointer; the length parameter is folded into the array.
func (p *parser) params(raw []rawParam) ([]Param, error) {
	out := make([]Param, 0, len(raw))
	for _, r := range raw {
		if p.legacy && strings.HasSuffix(r.Type, "*") {
			last := len(out) - 1
			if last < 0 || out[last].Name != r.Name+"_len" || out[last].Type.Kind != KindFelt {
				return nil, &ParseError{Reason: fmt.Sprintf("array %q is not preceded by %s_len", r.Name, r.Name)}
			}
			out = out[:last]
		}
		t, err := p.typeOf(r.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, Param{Name: r.Name, Type: t})
	}
	return out, nil
}

func (p *parser) event(e rawEntry) (*Event, error) {
	ev := &Event{
		Name:     e.Name,
		Kind:     KindStruct,
		Selector: SelectorFromName(shortName(e.Name)),
		Legacy:   p.legacy,
	}

	if p.legacy {
		keys, err := p.params(e.Keys)
		if err != nil {
			return nil, err
		}
		data, err := p.params(e.Data)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			ev.Members = append(ev.Members, EventMember{Name: k.Name, Type: k.Type, Kind: MemberKey})
		}
		for _, d := range data {
			ev.Members = append(ev.Members, EventMember{Name: d.Name, Type: d.Type, Kind: MemberData})
		}
		return ev, nil
	}

	switch e.Kind {
	case "struct":
		for _, m := range e.Members {
			kind, err := memberKind(m.Kind)
			if err != nil {
				return nil, err
			}
			t, err := p.typeOf(m.Type)
			if err != nil {
				return nil, err
			}
			ev.Members = append(ev.Members, EventMember{Name: m.Name, Type: t, Kind: kind})
		}
	case "enum":
		ev.Kind = KindEnum
		for _, v := range e.Variants {
			kind, err := memberKind(v.Kind)
			if err != nil {
				return nil, err
			}
			ev.Members = append(ev.Members, EventMember{Name: v.Name, Type: StructRef(v.Type), Kind: kind})
		}
	case "":
		// early Cairo 1 compilers listed event members as inputs
		for _, in := range e.Inputs {
			t, err := p.typeOf(in.Type)
			if err != nil {
				return nil, err
			}
			ev.Members = append(ev.Members, EventMember{Name: in.Name, Type: t, Kind: MemberData})
		}
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unknown event kind %q", e.Kind)}
	}
	return ev, nil
}

func memberKind(s string) (MemberKind, error) {
	switch s {
	case "key":
		return MemberKey, nil
	case "data", "":
		return MemberData, nil
	case "nested":
		return MemberNested, nil
	case "flat":
		return MemberFlat, nil
	}
	return 0, &ParseError{Reason: fmt.Sprintf("unknown event member kind %q", s)}
}

func (p *parser) typeOf(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if p.legacy {
		return p.legacyType(s)
	}
	return p.cairo1Type(s)
}

func (p *parser) cairo1Type(s string) (Type, error) {
	if t, ok := cairo1Builtins[s]; ok {
		return t, nil
	}
	switch {
	case s == "()":
		return Unit, nil
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		parts := splitTopLevel(s[1 : len(s)-1])
		elems := make([]Type, 0, len(parts))
		for _, part := range parts {
			t, err := p.cairo1Type(part)
			if err != nil {
				return Type{}, err
			}
			elems = append(elems, t)
		}
		return TupleOf(elems...), nil
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		// fixed size arrays serialize as their items without a length
		inner := s[1 : len(s)-1]
		semi := strings.LastIndex(inner, ";")
		if semi < 0 {
			return Type{}, &ParseError{Reason: fmt.Sprintf("malformed fixed size array %q", s)}
		}
		n, err := strconv.Atoi(strings.TrimSpace(inner[semi+1:]))
		if err != nil || n < 0 {
			return Type{}, &ParseError{Reason: fmt.Sprintf("malformed fixed size array %q", s)}
		}
		elem, err := p.cairo1Type(strings.TrimSpace(inner[:semi]))
		if err != nil {
			return Type{}, err
		}
		elems := make([]Type, n)
		for i := range elems {
			elems[i] = elem
		}
		return TupleOf(elems...), nil
	}

	if base, args, ok := splitGeneric(s); ok {
		switch base {
		case "core::array::Array", "core::array::Span", "core::option::Option", "core::zeroable::NonZero":
			if len(args) != 1 {
				return Type{}, &ParseError{Reason: fmt.Sprintf("%s takes one type argument", base)}
			}
			elem, err := p.cairo1Type(args[0])
			if err != nil {
				return Type{}, err
			}
			switch base {
			case "core::option::Option":
				return OptionOf(elem), nil
			case "core::zeroable::NonZero":
				return elem, nil
			}
			return ArrayOf(elem), nil
		}
	}
	return p.ref(s)
}

func (p *parser) legacyType(s string) (Type, error) {
	switch {
	case s == "felt":
		return Felt, nil
	case s == "Uint256":
		return Uint256, nil
	case s == "()":
		return Unit, nil
	case strings.HasSuffix(s, "*"):
		elem, err := p.legacyType(strings.TrimSuffix(s, "*"))
		if err != nil {
			return Type{}, err
		}
		return ArrayOf(elem), nil
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		parts := splitTopLevel(s[1 : len(s)-1])
		t := Type{Kind: KindTuple}
		for _, part := range parts {
			name, typ, named := strings.Cut(part, ":")
			if !named {
				typ = part
			} else {
				t.Names = append(t.Names, strings.TrimSpace(name))
			}
			elem, err := p.legacyType(strings.TrimSpace(typ))
			if err != nil {
				return Type{}, err
			}
			t.Elems = append(t.Elems, elem)
		}
		if len(t.Names) != 0 && len(t.Names) != len(t.Elems) {
			return Type{}, &ParseError{Reason: fmt.Sprintf("tuple %q mixes named and positional members", s)}
		}
		return t, nil
	}
	return p.ref(s)
}

func (p *parser) ref(name string) (Type, error) {
	e, ok := p.raw[name]
	if !ok {
		return Type{}, &TypeNotFoundError{Name: name}
	}
	if e.Type == "enum" {
		return EnumRef(name), nil
	}
	return StructRef(name), nil
}

func splitGeneric(s string) (string, []string, bool) {
	open := strings.Index(s, "::<")
	if open < 0 || !strings.HasSuffix(s, ">") {
		return "", nil, false
	}
	return s[:open], splitTopLevel(s[open+3 : len(s)-1]), true
}

// splitTopLevel splits on commas that are not nested in brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}

// checkCycles rejects types that contain themselves by value. Arrays and options end a
// path since they can be empty.
func checkCycles(types map[string]*TypeDef) error {
	const (
		visiting = iota + 1
		done
	)
	state := make(map[string]int, len(types))

	var visit func(name string) error
	var walk func(t Type) error
	walk = func(t Type) error {
		switch t.Kind {
		case KindStruct, KindEnum:
			return visit(t.Name)
		case KindTuple:
			for _, e := range t.Elems {
				if err := walk(e); err != nil {
					return err
				}
			}
		}
		return nil
	}
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return &ParseError{Entry: name, Reason: "type contains itself"}
		case done:
			return nil
		}
		state[name] = visiting
		for _, m := range types[name].Members {
			if err := walk(m.Type); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(types)) {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
