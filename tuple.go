package coredb

// tuple.go defines Tuple, the ordered sequence of field values matching a
// TupleDesc, plus its fixed-width (de)serialization. Grounded on
// josephinelee1234-GoDB's tuple.go, the only teacher-adjacent variant with a
// complete, unstubbed field (de)serialization pair.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Tuple is an ordered sequence of field values matching a TupleDesc, with an
// optional RecordId locating it in storage.
type Tuple struct {
	Desc   TupleDesc
	Fields []DBValue
	Rid    *RecordId
}

// Equals compares two tuples for type and value equality; RecordId is not
// compared.
func (t *Tuple) Equals(other *Tuple) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !t.Desc.Equals(&other.Desc) || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].EvalPred(other.Fields[i], OpEq) {
			return false
		}
	}
	return true
}

func writeIntField(b *bytes.Buffer, f IntField) error {
	return binary.Write(b, binary.BigEndian, int32(f.Value))
}

func writeStringField(b *bytes.Buffer, f StringField) error {
	raw := []byte(f.Value)
	if len(raw) > StringLength {
		raw = raw[:StringLength]
	}
	if err := binary.Write(b, binary.BigEndian, int32(len(raw))); err != nil {
		return err
	}
	padded := make([]byte, StringLength)
	copy(padded, raw)
	_, err := b.Write(padded)
	return err
}

// writeTo serializes the tuple's fields, in order, as fixed-width big-endian
// values matching the on-disk slot layout from spec.md §6.
func (t *Tuple) writeTo(b *bytes.Buffer) error {
	for _, f := range t.Fields {
		switch v := f.(type) {
		case IntField:
			if err := writeIntField(b, v); err != nil {
				return err
			}
		case StringField:
			if err := writeStringField(b, v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("coredb: unsupported field type %T", f)
		}
	}
	return nil
}

func readIntField(b *bytes.Buffer) (IntField, error) {
	var v int32
	if err := binary.Read(b, binary.BigEndian, &v); err != nil {
		return IntField{}, err
	}
	return IntField{Value: int64(v)}, nil
}

func readStringField(b *bytes.Buffer) (StringField, error) {
	var n int32
	if err := binary.Read(b, binary.BigEndian, &n); err != nil {
		return StringField{}, err
	}
	buf := make([]byte, StringLength)
	if _, err := b.Read(buf); err != nil {
		return StringField{}, err
	}
	if int(n) > len(buf) {
		n = int32(len(buf))
	}
	return StringField{Value: strings.TrimRight(string(buf[:n]), "\x00")}, nil
}

// readTupleFrom deserializes one tuple matching desc from b.
func readTupleFrom(b *bytes.Buffer, desc *TupleDesc) (*Tuple, error) {
	fields := make([]DBValue, len(desc.Fields))
	for i, ft := range desc.Fields {
		switch ft.Ftype {
		case IntType:
			f, err := readIntField(b)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		case StringType:
			f, err := readStringField(b)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		default:
			return nil, fmt.Errorf("coredb: unsupported field type %v", ft.Ftype)
		}
	}
	return &Tuple{Desc: *desc, Fields: fields}, nil
}
