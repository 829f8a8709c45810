package protogen

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is the name gRPC negotiates via the "grpc-encoding" and
// content-subtype mechanism. Registering it as "proto" makes every
// ChordService call use JSON on the wire without the client or server
// needing to opt in explicitly - grpc.CallContentSubtype defaults to
// whatever the channel's codec is registered under.
const jsonCodecName = "proto"

// jsonCodec implements encoding.Codec by marshaling with encoding/json
// instead of protobuf wire format. The request/response types in this
// package are plain structs, not proto.Message, precisely so this codec
// can be dropped in without any .proto compilation step.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonCodec: marshal failed: %w", err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("jsonCodec: unmarshal failed: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
