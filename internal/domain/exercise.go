package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"gopkg.in/yaml.v3"
)

var jsonNull = []byte("null")

// Exercises is the exercise payload authored with the catalog. Its shape is
// free-form (a list of objects, a list of names, a single object) so it is
// held as JSON and passed through untouched.
type Exercises json.RawMessage

// IsZero reports an absent or null payload.
func (e Exercises) IsZero() bool {
	return len(bytes.TrimSpace(e)) == 0 || bytes.Equal(bytes.TrimSpace(e), jsonNull)
}

// Decode unmarshals the payload into v.
func (e Exercises) Decode(v any) error {
	if e.IsZero() {
		return nil
	}
	return json.Unmarshal(e, v)
}

func (e Exercises) MarshalJSON() ([]byte, error) {
	if e.IsZero() {
		return jsonNull, nil
	}
	return e, nil
}

func (e *Exercises) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*e = nil
		return nil
	}
	*e = append(Exercises(nil), data...)
	return nil
}

// MarshalBSONValue stores the payload as native BSON so it stays queryable.
func (e Exercises) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if e.IsZero() {
		return bsontype.Null, nil, nil
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(`{"v":`+string(e)+`}`), false, &doc); err != nil {
		return 0, nil, fmt.Errorf("exercises: %w", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return 0, nil, fmt.Errorf("exercises: %w", err)
	}
	v, err := bson.Raw(raw).LookupErr("v")
	if err != nil {
		return 0, nil, fmt.Errorf("exercises: %w", err)
	}
	return v.Type, v.Value, nil
}

func (e *Exercises) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		*e = nil
		return nil
	}
	doc, err := bson.Marshal(bson.D{{Key: "v", Value: bson.RawValue{Type: t, Value: data}}})
	if err != nil {
		return fmt.Errorf("exercises: %w", err)
	}
	out, err := bson.MarshalExtJSON(bson.Raw(doc), false, false)
	if err != nil {
		return fmt.Errorf("exercises: %w", err)
	}
	var wrapper struct {
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(out, &wrapper); err != nil {
		return fmt.Errorf("exercises: %w", err)
	}
	*e = Exercises(wrapper.V)
	return nil
}

func (e *Exercises) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	if v == nil {
		*e = nil
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("exercises: %w", err)
	}
	*e = Exercises(data)
	return nil
}
