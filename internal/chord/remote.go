package chord

import (
	"context"
	"math/big"
	"time"
)

// RemoteClient defines the interface for making remote calls to other Chord nodes.
// This interface allows the ChordNode to make RPC calls without directly depending
// on the transport layer, avoiding circular dependencies.
type RemoteClient interface {
	// FindSuccessor calls the FindSuccessor RPC on a remote node.
	FindSuccessor(address string, id *big.Int) (*NodeAddress, error)

	// FindSuccessorWithPath calls the FindSuccessorWithPath RPC on a remote node.
	// Returns the successor and the path taken (list of nodes visited from that node onwards).
	FindSuccessorWithPath(address string, id *big.Int) (*NodeAddress, []*NodeAddress, error)

	// GetPredecessor calls the GetPredecessor RPC on a remote node.
	GetPredecessor(address string) (*NodeAddress, error)

	// GetSuccessorId calls the GetSuccessorId RPC on a remote node, returning
	// only its immediate successor (as opposed to GetSuccessorList's full list).
	GetSuccessorId(address string) (*NodeAddress, error)

	// Notify calls the Notify RPC on a remote node.
	Notify(address string, node *NodeAddress) error

	// GetSuccessorList calls the GetSuccessorList RPC on a remote node.
	GetSuccessorList(address string) ([]*NodeAddress, error)

	// Ping calls the Ping RPC on a remote node. Used for predecessor liveness checks.
	Ping(address string, message string) (string, error)

	// ClosestPrecedingFinger calls the ClosestPrecedingFinger RPC on a remote node.
	ClosestPrecedingFinger(address string, id *big.Int) (*NodeAddress, error)

	// Get calls the Get RPC on a remote node to retrieve a value.
	Get(ctx context.Context, address string, key string) ([]byte, bool, error)

	// Set calls the Set RPC on a remote node to store a value. A ttl of 0
	// means the value never expires.
	Set(ctx context.Context, address string, key string, value []byte, ttl time.Duration) error

	// Delete calls the Delete RPC on a remote node to remove a value.
	Delete(ctx context.Context, address string, key string) error

	// TransferKeys calls the TransferKeys RPC on a remote node to retrieve keys in a range.
	// Returns a map of hashed keys to values for keys in range (startID, endID].
	TransferKeys(ctx context.Context, address string, startID, endID *big.Int) (map[string][]byte, error)

	// DeleteTransferredKeys calls the DeleteTransferredKeys RPC on a remote node to delete keys in a range.
	// Used after successful key transfer to clean up duplicates.
	DeleteTransferredKeys(ctx context.Context, address string, startID, endID *big.Int) error
}
