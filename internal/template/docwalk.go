package template

import (
	"encoding/json"
	"fmt"
	"strings"
)

// docKind tags the JSON value variants of a parsed document.
type docKind int

const (
	docString docKind = iota
	docNumber
	docBool
	docNull
	docArray
	docObject
)

// docValue is one node of a parsed JSON document. Objects keep their
// members as a slice so serialization preserves the original key order.
// Numbers, booleans and null keep their literal text in raw.
type docValue struct {
	kind docKind
	str  string
	raw  string
	arr  []docValue
	obj  []docMember
}

type docMember struct {
	key string
	val docValue
}

// parseDocument parses s as a JSON document. It reports false unless the
// top-level value is an object or array with no trailing content.
func parseDocument(s string) (docValue, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return docValue{}, false
	}
	if v.kind != docObject && v.kind != docArray {
		return docValue{}, false
	}
	if dec.More() {
		return docValue{}, false
	}

	return v, true
}

// parseValue reads one JSON value from the decoder's token stream.
func parseValue(dec *json.Decoder) (docValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return docValue{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := docValue{kind: docObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return docValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return docValue{}, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				child, err := parseValue(dec)
				if err != nil {
					return docValue{}, err
				}
				v.obj = append(v.obj, docMember{key: key, val: child})
			}
			// consume closing brace
			if _, err := dec.Token(); err != nil {
				return docValue{}, err
			}
			return v, nil
		case '[':
			v := docValue{kind: docArray}
			for dec.More() {
				child, err := parseValue(dec)
				if err != nil {
					return docValue{}, err
				}
				v.arr = append(v.arr, child)
			}
			// consume closing bracket
			if _, err := dec.Token(); err != nil {
				return docValue{}, err
			}
			return v, nil
		}
		return docValue{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return docValue{kind: docString, str: t}, nil
	case json.Number:
		return docValue{kind: docNumber, raw: t.String()}, nil
	case bool:
		if t {
			return docValue{kind: docBool, raw: "true"}, nil
		}
		return docValue{kind: docBool, raw: "false"}, nil
	case nil:
		return docValue{kind: docNull, raw: "null"}, nil
	}

	return docValue{}, fmt.Errorf("unexpected token %v", tok)
}

// encodeDocument serializes a document back to compact JSON, keeping the
// member order recorded at parse time.
func encodeDocument(v docValue) string {
	var b strings.Builder
	encodeValue(&b, v)
	return b.String()
}

func encodeValue(b *strings.Builder, v docValue) {
	switch v.kind {
	case docString:
		data, _ := json.Marshal(v.str)
		b.Write(data)
	case docNumber, docBool, docNull:
		b.WriteString(v.raw)
	case docArray:
		b.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			encodeValue(b, item)
		}
		b.WriteByte(']')
	case docObject:
		b.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				b.WriteByte(',')
			}
			key, _ := json.Marshal(m.key)
			b.Write(key)
			b.WriteByte(':')
			encodeValue(b, m.val)
		}
		b.WriteByte('}')
	}
}
