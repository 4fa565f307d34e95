package eip712

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrMissingField indicates a struct field with no value.
	ErrMissingField = errors.New("eip712: missing field")

	// ErrUnexpectedField indicates a value for a field the struct does not declare.
	ErrUnexpectedField = errors.New("eip712: unexpected field")

	// ErrUnsupportedType indicates a field type other than string.
	ErrUnsupportedType = errors.New("eip712: unsupported field type")
)

// Field is a single (name, type) member of an EIP-712 struct.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Struct is a fixed message shape.
type Struct struct {
	PrimaryType string
	Fields      []Field
}

// NewStruct builds a struct whose members are all strings.
func NewStruct(primaryType string, names ...string) Struct {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Type: "string"}
	}
	return Struct{PrimaryType: primaryType, Fields: fields}
}

// TypeString renders the struct as "Primary(type name,type name)".
func (s Struct) TypeString() string {
	members := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		members[i] = f.Type + " " + f.Name
	}
	return s.PrimaryType + "(" + strings.Join(members, ",") + ")"
}

// Values orders values by the struct's fields. Every field must be present
// and no other key may be supplied.
func (s Struct) Values(values map[string]string) ([]string, error) {
	ordered := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		if f.Type != "string" {
			return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedType, f.Type, f.Name)
		}
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.Name)
		}
		ordered[i] = v
	}
	if len(values) != len(s.Fields) {
		for name := range values {
			if !s.has(name) {
				return nil, fmt.Errorf("%w: %s", ErrUnexpectedField, name)
			}
		}
	}
	return ordered, nil
}

// Hash returns the struct hash of values.
func (s Struct) Hash(values map[string]string) (common.Hash, error) {
	ordered, err := s.Values(values)
	if err != nil {
		return common.Hash{}, err
	}
	return StructHash(s.TypeString(), ordered...), nil
}

func (s Struct) has(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// StructHash computes keccak256(keccak256(typeString) ‖ keccak256(v1) ‖ ...)
// for string-valued fields given in struct order.
func StructHash(typeString string, values ...string) common.Hash {
	data := make([][]byte, 0, len(values)+1)
	data = append(data, HashString(typeString).Bytes())
	for _, v := range values {
		data = append(data, HashString(v).Bytes())
	}
	return crypto.Keccak256Hash(data...)
}

// Digest is the signable EIP-712 hash keccak256(0x1901 ‖ domain ‖ struct).
func Digest(domainHash, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domainHash.Bytes(), structHash.Bytes())
}
