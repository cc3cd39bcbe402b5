package normstore

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// refMarker keys the wire form of a Ref inside a snapshot. A Ref is encoded
// as a single-entry map so snapshots stay plain msgpack data.
const refMarker = "__ref"

var _ msgpack.CustomEncoder = Ref{}

// EncodeMsgpack writes the Ref in its wire form. The custom encoding covers
// Refs anywhere in a stored value, including inside typed structs that
// embed them.
func (r Ref) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(1); err != nil {
		return err
	}
	if err := enc.EncodeString(refMarker); err != nil {
		return err
	}
	return enc.EncodeString(r.Key)
}

// Snapshot serializes every record into a msgpack document that Restore can
// hydrate into an equivalent store.
func (s *Store) Snapshot() ([]byte, error) {
	dump := make(map[string]map[string]any)

	s.Range(func(key string, rec *Record) bool {
		dump[key] = rec.Fields()
		return true
	})

	data, err := msgpack.Marshal(dump)
	if err != nil {
		return nil, fmt.Errorf("normstore: snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the store contents with the records from a snapshot.
// Stored values come back in generic form: maps, slices, scalars, and Refs.
// Typed values that were stored live (merge policy outputs) hydrate as the
// generic shape their encoding produced.
func (s *Store) Restore(data []byte) error {
	var dump map[string]map[string]any
	if err := msgpack.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("normstore: restore: %w", err)
	}

	s.Clear()
	for key, fields := range dump {
		rec := s.Ensure(key)
		for fk, v := range fields {
			rec.Set(fk, decodeValue(v))
		}
	}
	return nil
}

func decodeValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = decodeValue(e)
		}
		return out
	case map[string]any:
		if key, ok := t[refMarker].(string); ok && len(t) == 1 {
			return Ref{Key: key}
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = decodeValue(e)
		}
		return out
	default:
		return v
	}
}
