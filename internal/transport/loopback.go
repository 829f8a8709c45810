package transport

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/zde37/torus/internal/chord"
)

// LoopbackTransport implements chord.RemoteClient by dispatching directly to
// in-process ChordNode instances, keyed by the address they were registered
// under. It exists so ring-wide behavior (joins, stabilization, routing,
// failure handling) can be driven and asserted on in a single test process
// with no sockets, TCP ports, or goroutine scheduling jitter from a real
// network stack.
//
// A node is "down" for the purposes of this transport once it has been
// removed from the registry or has called Shutdown - either produces the
// same connection-refused-style error a real RemoteClient would see when its
// peer is unreachable.
type LoopbackTransport struct {
	mu    sync.RWMutex
	nodes map[string]*chord.ChordNode
}

// NewLoopbackTransport creates an empty registry.
func NewLoopbackTransport() *LoopbackTransport {
	return &LoopbackTransport{
		nodes: make(map[string]*chord.ChordNode),
	}
}

// Register makes node reachable at address for subsequent RemoteClient calls.
func (lt *LoopbackTransport) Register(address string, node *chord.ChordNode) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.nodes[address] = node
}

// Unregister removes a node from the registry, simulating it going offline.
func (lt *LoopbackTransport) Unregister(address string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	delete(lt.nodes, address)
}

func (lt *LoopbackTransport) lookup(address string) (*chord.ChordNode, error) {
	lt.mu.RLock()
	node, ok := lt.nodes[address]
	lt.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("loopback: no node registered at %s", address)
	}
	if node.IsShutdown() {
		return nil, fmt.Errorf("loopback: node at %s is shut down", address)
	}
	return node, nil
}

var _ chord.RemoteClient = (*LoopbackTransport)(nil)

func (lt *LoopbackTransport) FindSuccessor(address string, id *big.Int) (*chord.NodeAddress, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, err
	}
	return node.FindSuccessor(id)
}

func (lt *LoopbackTransport) FindSuccessorWithPath(address string, id *big.Int) (*chord.NodeAddress, []*chord.NodeAddress, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, nil, err
	}
	return node.FindSuccessorWithPath(id)
}

func (lt *LoopbackTransport) GetPredecessor(address string) (*chord.NodeAddress, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, err
	}
	return node.GetPredecessor(), nil
}

func (lt *LoopbackTransport) GetSuccessorId(address string) (*chord.NodeAddress, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, err
	}
	return node.GetSuccessor(), nil
}

func (lt *LoopbackTransport) Notify(address string, n *chord.NodeAddress) error {
	node, err := lt.lookup(address)
	if err != nil {
		return err
	}
	node.Notify(n)
	return nil
}

func (lt *LoopbackTransport) GetSuccessorList(address string) ([]*chord.NodeAddress, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, err
	}
	return node.GetSuccessorList(), nil
}

func (lt *LoopbackTransport) Ping(address string, message string) (string, error) {
	if _, err := lt.lookup(address); err != nil {
		return "", err
	}
	return "pong", nil
}

func (lt *LoopbackTransport) ClosestPrecedingFinger(address string, id *big.Int) (*chord.NodeAddress, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, err
	}
	return node.ClosestPrecedingNode(id), nil
}

func (lt *LoopbackTransport) Get(ctx context.Context, address string, key string) ([]byte, bool, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, false, err
	}
	return node.Get(ctx, key)
}

func (lt *LoopbackTransport) Set(ctx context.Context, address string, key string, value []byte, ttl time.Duration) error {
	node, err := lt.lookup(address)
	if err != nil {
		return err
	}
	return node.Set(ctx, key, value, ttl)
}

func (lt *LoopbackTransport) Delete(ctx context.Context, address string, key string) error {
	node, err := lt.lookup(address)
	if err != nil {
		return err
	}
	return node.Delete(ctx, key)
}

func (lt *LoopbackTransport) TransferKeys(ctx context.Context, address string, startID, endID *big.Int) (map[string][]byte, error) {
	node, err := lt.lookup(address)
	if err != nil {
		return nil, err
	}
	return node.TransferKeys(ctx, startID, endID)
}

func (lt *LoopbackTransport) DeleteTransferredKeys(ctx context.Context, address string, startID, endID *big.Int) error {
	node, err := lt.lookup(address)
	if err != nil {
		return err
	}
	_, err = node.DeleteTransferredKeys(ctx, startID, endID)
	return err
}
