// jsonvalue.go - adapt JSON documents to and from the sbson value model

// Package jsonvalue converts JSON documents into sbson values and back.
// It exists for the CLI: the codec itself never sees JSON.
//
// JSON numbers must be integral; SBSON has no float representation, so
// a fractional or exponent-form number is an encoding error rather than
// a silent truncation. Binary values have no JSON source form and are
// rendered as base64 strings on the way out.
package jsonvalue

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/Gilnaa/sbson"
)

var jcfg = jsoniter.ConfigCompatibleWithStandardLibrary

// FromJSON parses one JSON document into an sbson.Value.
func FromJSON(data []byte) (sbson.Value, error) {
	it := jsoniter.ParseBytes(jcfg, data)

	v, err := readValue(it)
	if err != nil {
		return sbson.Value{}, err
	}
	if it.Error != nil && it.Error != io.EOF {
		return sbson.Value{}, fmt.Errorf("jsonvalue: %w", it.Error)
	}
	return v, nil
}

func readValue(it *jsoniter.Iterator) (sbson.Value, error) {
	switch it.WhatIsNext() {
	case jsoniter.NilValue:
		it.ReadNil()
		return sbson.Null(), nil

	case jsoniter.BoolValue:
		return sbson.Bool(it.ReadBool()), nil

	case jsoniter.StringValue:
		return sbson.Str(it.ReadString()), nil

	case jsoniter.NumberValue:
		return numberValue(it.ReadNumber())

	case jsoniter.ArrayValue:
		var vals []sbson.Value
		var err error
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			var v sbson.Value
			if v, err = readValue(it); err != nil {
				return false
			}
			vals = append(vals, v)
			return true
		})
		if err != nil {
			return sbson.Value{}, err
		}
		return sbson.Arr(vals), nil

	case jsoniter.ObjectValue:
		m := make(map[string]sbson.Value)
		var err error
		it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			var v sbson.Value
			if v, err = readValue(it); err != nil {
				return false
			}
			m[key] = v
			return true
		})
		if err != nil {
			return sbson.Value{}, err
		}
		return sbson.Map(m), nil
	}

	if it.Error != nil && it.Error != io.EOF {
		return sbson.Value{}, fmt.Errorf("jsonvalue: %w", it.Error)
	}
	return sbson.Value{}, fmt.Errorf("jsonvalue: unexpected token")
}

func numberValue(n json.Number) (sbson.Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return sbson.Int(i), nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return sbson.Uint(u), nil
	}
	return sbson.Value{}, fmt.Errorf("jsonvalue: number %s is not an integer: %w", n, sbson.ErrUnsupportedType)
}

// ToJSON renders v as a JSON document. Map keys are emitted sorted so
// the output is deterministic.
func ToJSON(v sbson.Value) ([]byte, error) {
	stream := jcfg.BorrowStream(nil)
	defer jcfg.ReturnStream(stream)

	if err := writeValue(stream, v); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func writeValue(s *jsoniter.Stream, v sbson.Value) error {
	switch v.Kind() {
	case sbson.KindNull:
		s.WriteNil()

	case sbson.KindBool:
		s.WriteBool(v.AsBool())

	case sbson.KindInt:
		s.WriteInt64(v.AsInt())

	case sbson.KindUint:
		s.WriteUint64(v.AsUint())

	case sbson.KindString:
		s.WriteString(v.AsString())

	case sbson.KindBinary:
		s.WriteString(base64.StdEncoding.EncodeToString(v.AsBinary()))

	case sbson.KindArray:
		s.WriteArrayStart()
		for i, e := range v.AsArray() {
			if i > 0 {
				s.WriteMore()
			}
			if err := writeValue(s, e); err != nil {
				return err
			}
		}
		s.WriteArrayEnd()

	case sbson.KindMap:
		m := v.AsMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		s.WriteObjectStart()
		for i, k := range keys {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(k)
			if err := writeValue(s, m[k]); err != nil {
				return err
			}
		}
		s.WriteObjectEnd()

	default:
		return fmt.Errorf("jsonvalue: kind %d: %w", v.Kind(), sbson.ErrUnsupportedType)
	}
	return nil
}
