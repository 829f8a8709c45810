// Package protogen holds the wire types for the Chord gRPC service.
//
// These are hand-written Go structs rather than protoc-generated code: the
// service is served over google.golang.org/grpc using a JSON codec (see
// codec.go) instead of the protobuf wire format, so no .proto compilation
// step is required to add or change a field.
package protogen

// Node is the wire representation of a chord.NodeAddress.
type Node struct {
	Id   []byte `json:"id"`
	Host string `json:"host"`
	Port int32  `json:"port"`
}

type FindSuccessorRequest struct {
	Id []byte `json:"id"`
}

type FindSuccessorResponse struct {
	Successor *Node `json:"successor"`
}

type FindSuccessorWithPathRequest struct {
	Id []byte `json:"id"`
}

type FindSuccessorWithPathResponse struct {
	Successor *Node   `json:"successor"`
	Path      []*Node `json:"path"`
}

type GetPredecessorRequest struct{}

type GetPredecessorResponse struct {
	Predecessor *Node `json:"predecessor"`
}

type GetSuccessorIdRequest struct{}

type GetSuccessorIdResponse struct {
	Successor *Node `json:"successor"`
}

type NotifyRequest struct {
	Node *Node `json:"node"`
}

type NotifyResponse struct {
	Success bool `json:"success"`
}

type GetSuccessorListRequest struct{}

type GetSuccessorListResponse struct {
	Successors []*Node `json:"successors"`
}

type PingRequest struct {
	Message string `json:"message"`
}

type PingResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type ClosestPrecedingFingerRequest struct {
	Id []byte `json:"id"`
}

type ClosestPrecedingFingerResponse struct {
	Node *Node `json:"node"`
}

type GetRequest struct {
	Key string `json:"key"`
}

type GetResponse struct {
	Value []byte `json:"value"`
	Found bool   `json:"found"`
}

type SetRequest struct {
	Key        string `json:"key"`
	Value      []byte `json:"value"`
	TtlSeconds int64  `json:"ttl_seconds"`
}

type SetResponse struct {
	Success bool `json:"success"`
}

type DeleteRequest struct {
	Key string `json:"key"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type KeyValuePair struct {
	Key        string `json:"key"`
	Value      []byte `json:"value"`
	TtlSeconds int64  `json:"ttl_seconds"`
}

type TransferKeysRequest struct {
	StartId []byte `json:"start_id"`
	EndId   []byte `json:"end_id"`
}

type TransferKeysResponse struct {
	Keys  []*KeyValuePair `json:"keys"`
	Count int32           `json:"count"`
}

type DeleteTransferredKeysRequest struct {
	StartId []byte `json:"start_id"`
	EndId   []byte `json:"end_id"`
}

type DeleteTransferredKeysResponse struct {
	Success bool  `json:"success"`
	Count   int32 `json:"count"`
}
