package store

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/mus-format/mus-go/varint"
)

// Stored record values are a varint version header followed by the CBOR
// encoding of the field map. CBOR keeps the field map schema-flexible; the
// fixed-shape header and edge payloads use MUS varints.

// MarshalRecordValue serializes a record's version and fields.
func MarshalRecordValue(version int, fields map[string]any) ([]byte, error) {
	payload, err := cbor.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n := varint.Uint64.Size(uint64(version))
	buf := make([]byte, n+len(payload))
	varint.Uint64.Marshal(uint64(version), buf)
	copy(buf[n:], payload)
	return buf, nil
}

// UnmarshalRecordValue deserializes a record value.
func UnmarshalRecordValue(data []byte) (version int, fields map[string]any, err error) {
	v, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	fields = make(map[string]any)
	if err := cbor.Unmarshal(data[n:], &fields); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return int(v), fields, nil
}

// MarshalEdgeValue serializes an edge payload (creation time, epoch millis).
func MarshalEdgeValue(created int64) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(created)))
	varint.Uint64.Marshal(uint64(created), buf)
	return buf
}

// UnmarshalEdgeValue deserializes an edge payload.
func UnmarshalEdgeValue(data []byte) (int64, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return int64(v), nil
}
