package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/NethermindEth/starkclient/core/felt"
)

// UnknownFields selects what a Schema does with object keys that no record field claims.
type UnknownFields uint8

const (
	UnknownFieldsDrop UnknownFields = iota
	UnknownFieldsReject
)

func (u UnknownFields) String() string {
	if u == UnknownFieldsReject {
		return "reject"
	}
	return "drop"
}

// SchemaError reports a document that does not fit the record it is parsed into.
type SchemaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaErrorf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Schema parses and emits wire records. Its settings are fixed at construction, so a Schema
// can be shared by any number of goroutines.
type Schema struct {
	unknown     UnknownFields
	legacyNames bool
}

type SchemaOption func(*Schema)

// WithLegacyNames emits INVOKE_FUNCTION instead of INVOKE for invoke transactions.
func WithLegacyNames() SchemaOption {
	return func(s *Schema) {
		s.legacyNames = true
	}
}

func NewSchema(unknown UnknownFields, opts ...SchemaOption) *Schema {
	s := &Schema{unknown: unknown}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultSchema drops unknown fields.
var DefaultSchema = NewSchema(UnknownFieldsDrop)

func (s *Schema) UnknownFields() UnknownFields {
	return s.unknown
}

// Unmarshal decodes data into v. In reject mode the document is then walked against the
// decoded value and the first key that maps to no field is reported.
func (s *Schema) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return asSchemaError(err)
	}
	if s.unknown == UnknownFieldsReject {
		return checkKnown("$", data, reflect.ValueOf(v))
	}
	return nil
}

func (s *Schema) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || !s.legacyNames {
		return data, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err = dec.Decode(&doc); err != nil {
		return nil, err
	}
	return json.Marshal(legacyInvokeNames(doc))
}

func legacyInvokeNames(doc any) any {
	switch d := doc.(type) {
	case map[string]any:
		for k, v := range d {
			d[k] = legacyInvokeNames(v)
		}
		if _, versioned := d["version"]; versioned && d["type"] == TxnInvoke.String() {
			d["type"] = "INVOKE_FUNCTION"
		}
	case []any:
		for i, v := range d {
			d[i] = legacyInvokeNames(v)
		}
	}
	return doc
}

func asSchemaError(err error) error {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SchemaError{Path: typeErr.Field, Reason: "expected " + typeErr.Type.String() + ", got " + typeErr.Value, Err: err}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SchemaError{Path: "offset " + strconv.FormatInt(syntaxErr.Offset, 10), Reason: syntaxErr.Error(), Err: err}
	}
	return &SchemaError{Reason: err.Error(), Err: err}
}

// multipart is implemented by records whose JSON object is the union of several Go values,
// such as a transaction header and its version specific body.
type multipart interface {
	wireParts() []any
}

var (
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	multipartType   = reflect.TypeFor[multipart]()
)

func checkKnown(path string, raw json.RawMessage, v reflect.Value) error {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	if v.CanAddr() && v.Addr().Type().Implements(multipartType) {
		parts := v.Addr().Interface().(multipart).wireParts()
		values := make([]reflect.Value, 0, len(parts))
		for _, p := range parts {
			values = append(values, reflect.ValueOf(p))
		}
		return checkObject(path, raw, values)
	}
	if v.CanAddr() && v.Addr().Type().Implements(unmarshalerType) {
		return nil
	}

	switch v.Kind() {
	case reflect.Struct:
		return checkObject(path, raw, []reflect.Value{v})
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		for i := 0; i < len(items) && i < v.Len(); i++ {
			if err := checkKnown(path+"["+strconv.Itoa(i)+"]", items[i], v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil
		}
		for key, item := range entries {
			elem := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
			if !elem.IsValid() {
				continue
			}
			// map elements are not addressable
			cp := reflect.New(elem.Type()).Elem()
			cp.Set(elem)
			if err := checkKnown(path+"."+key, item, cp); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkObject(path string, raw json.RawMessage, parts []reflect.Value) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	for key, item := range entries {
		found := false
		for _, part := range parts {
			for part.Kind() == reflect.Pointer || part.Kind() == reflect.Interface {
				if part.IsNil() {
					break
				}
				part = part.Elem()
			}
			if part.Kind() != reflect.Struct {
				continue
			}
			idx, ok := fieldsOf(part.Type())[key]
			if !ok {
				continue
			}
			found = true
			if field, ok := fieldByIndex(part, idx); ok {
				if err := checkKnown(path+"."+key, item, field); err != nil {
					return err
				}
			}
			break
		}
		if !found {
			return schemaErrorf(path, "unknown field %q", key)
		}
	}
	return nil
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

var fieldCache sync.Map // reflect.Type -> map[string][]int

// fieldsOf returns the wire keys of a struct, following embedded structs the way
// encoding/json does. An `alias` tag names an extra accepted key.
func fieldsOf(t reflect.Type) map[string][]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string][]int)
	}

	fields := make(map[string][]int)
	var collect func(t reflect.Type, prefix []int)
	collect = func(t reflect.Type, prefix []int) {
		for i := range t.NumField() {
			f := t.Field(i)
			index := append(append([]int(nil), prefix...), i)
			tag := f.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			if f.Anonymous && name == "" {
				ft := f.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					collect(ft, index)
					continue
				}
			}
			if !f.IsExported() {
				continue
			}
			if name == "" {
				name = f.Name
			}
			if _, taken := fields[name]; !taken {
				fields[name] = index
			}
			if alias := f.Tag.Get("alias"); alias != "" {
				fields[alias] = index
			}
		}
	}
	collect(t, nil)

	fieldCache.Store(t, fields)
	return fields
}

// Canonicalize turns PascalCase enum names such as AcceptedOnL2 into ACCEPTED_ON_L2.
// Names that are already upper case pass through unchanged.
func Canonicalize(s string) string {
	if strings.ToUpper(s) == s {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := s[i-1]
			if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

type enumValue interface{ ~uint8 | ~uint32 }

// enum maps between wire names and values of a small enumeration.
type enum[T enumValue] struct {
	kind   string
	names  map[T]string
	values map[string]T
}

func newEnum[T enumValue](kind string, names map[T]string, aliases map[string]T) *enum[T] {
	e := &enum[T]{kind: kind, names: names, values: make(map[string]T, len(names)+len(aliases))}
	for v, name := range names {
		e.values[name] = v
	}
	for name, v := range aliases {
		e.values[name] = v
	}
	return e
}

func (e *enum[T]) name(v T) (string, error) {
	name, ok := e.names[v]
	if !ok {
		// v's String method comes back here, so format the raw integer.
		return "", fmt.Errorf("unknown %s %d", e.kind, uint64(v))
	}
	return name, nil
}

func (e *enum[T]) marshal(v T) ([]byte, error) {
	name, err := e.name(v)
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Quote(name)), nil
}

func (e *enum[T]) unmarshal(data []byte) (T, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var zero T
		return zero, schemaErrorf("", "%s must be a string, got %s", e.kind, data)
	}
	return e.parse(s)
}

func (e *enum[T]) parse(s string) (T, error) {
	if v, ok := e.values[s]; ok {
		return v, nil
	}
	if v, ok := e.values[Canonicalize(s)]; ok {
		return v, nil
	}
	var zero T
	return zero, schemaErrorf("", "unknown %s %q", e.kind, s)
}

// presentKeys lists which of keys occur in the JSON object data.
func presentKeys(data []byte, keys ...string) (map[string]json.RawMessage, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, asSchemaError(err)
	}
	found := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := entries[k]; ok && !bytes.Equal(v, []byte("null")) {
			found[k] = v
		}
	}
	return found, nil
}

func parseFelt(raw json.RawMessage, path string) (*felt.Felt, error) {
	f := new(felt.Felt)
	if err := f.UnmarshalJSON(raw); err != nil {
		return nil, &SchemaError{Path: path, Reason: err.Error(), Err: err}
	}
	return f, nil
}
