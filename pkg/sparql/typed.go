package sparql

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

// field describes one tagged struct field.
type field struct {
	index    int
	name     string
	uri      bool
	required bool
}

// fieldsOf reads `sparql:"name,uri|literal[,required]"` tags from a struct type.
func fieldsOf(t reflect.Type) ([]field, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.NewValidationError("type", t.String(), "query shape must be a struct")
	}

	var fields []field
	for i := range t.NumField() {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("sparql")
		if !ok || tag == "-" {
			continue
		}
		if sf.Type.Kind() != reflect.String || !sf.IsExported() {
			return nil, errors.NewValidationError(sf.Name, tag, "tagged field must be an exported string")
		}

		parts := strings.Split(tag, ",")
		f := field{index: i, name: parts[0]}
		if f.name == "" {
			return nil, errors.NewValidationError(sf.Name, tag, "missing binding name")
		}
		kind := ""
		for _, opt := range parts[1:] {
			switch opt {
			case "uri", "literal":
				kind = opt
			case "required":
				f.required = true
			default:
				return nil, errors.NewValidationError(sf.Name, tag, fmt.Sprintf("unknown option %q", opt))
			}
		}
		if kind == "" {
			return nil, errors.NewValidationError(sf.Name, tag, "binding must be uri or literal")
		}
		f.uri = kind == "uri"
		fields = append(fields, f)
	}
	return fields, nil
}

// SpecOf derives the FieldSpec declared by the tags of struct type T.
func SpecOf[T any]() (FieldSpec, error) {
	fields, err := fieldsOf(reflect.TypeFor[T]())
	if err != nil {
		return FieldSpec{}, err
	}

	var spec FieldSpec
	for _, f := range fields {
		if f.uri {
			spec.URIFields = append(spec.URIFields, f.name)
		} else {
			spec.LiteralFields = append(spec.LiteralFields, f.name)
		}
		if f.required {
			spec.Required = append(spec.Required, f.name)
		}
	}
	return spec, spec.Validate()
}

// Decode copies records into values of struct type T, in order.
// Absent fields leave the zero value.
func Decode[T any](records []Record) ([]T, error) {
	fields, err := fieldsOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	out := make([]T, len(records))
	for i, rec := range records {
		v := reflect.ValueOf(&out[i]).Elem()
		for _, f := range fields {
			if val, ok := rec[f.name]; ok {
				v.Field(f.index).SetString(val)
			}
		}
	}
	return out, nil
}

// ParseInto parses a response against the shape declared by T.
func ParseInto[T any](ctx context.Context, resp Response) ([]T, *Report, error) {
	spec, err := SpecOf[T]()
	if err != nil {
		return nil, nil, err
	}
	records, report, err := Parse(ctx, resp, spec)
	if err != nil {
		return nil, report, err
	}
	rows, err := Decode[T](records)
	return rows, report, err
}
