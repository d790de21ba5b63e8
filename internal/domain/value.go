package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifica el tipo escalar contenido en un Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// Value es la union etiquetada para respuestas crudas: entero, booleano o texto libre.
// Los valores se construyen una vez y no se mutan.
type Value struct {
	kind Kind
	s    string
	i    int
	b    bool
}

func NewString(s string) Value { return Value{kind: KindString, s: s} }
func NewInt(i int) Value       { return Value{kind: KindInt, i: i} }
func NewBool(b bool) Value     { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }

// Int devuelve el entero contenido y si el valor es de tipo entero.
func (v Value) Int() (int, bool) {
	return v.i, v.kind == KindInt
}

// Bool devuelve el booleano contenido y si el valor es de tipo booleano.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text devuelve el texto contenido y si el valor es de tipo string.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// String devuelve la forma textual del valor sin importar su tipo.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return json.Marshal(v.i)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.s)
	}
}

// UnmarshalJSON acepta solo escalares JSON: numeros enteros, booleanos y strings.
// Objetos, arreglos, null y numeros no enteros se rechazan en el decode.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case bool:
		*v = NewBool(t)
	case json.Number:
		i, err := strconv.Atoi(t.String())
		if err != nil {
			return fmt.Errorf("answer value %s is not an integer", t.String())
		}
		*v = NewInt(i)
	case string:
		*v = NewString(t)
	default:
		return fmt.Errorf("answer value must be a scalar, got %T", raw)
	}
	return nil
}

// RawAnswers es la representacion menos confiable: campo -> escalar sin tipar.
type RawAnswers map[string]Value

// CanonicalAnswers es el mapa ya normalizado por campo; solo lo produce el Normalizer.
type CanonicalAnswers map[string]Value
