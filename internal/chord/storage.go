package chord

import (
	"context"
	"math/big"
	"time"

	"github.com/zde37/torus/internal/hash"
	"github.com/zde37/torus/pkg"
)

// chordMetadataPrefix marks keys used for internal node bookkeeping (e.g.
// persisted predecessor/successor state) so migration and counting logic can
// tell them apart from user data.
const chordMetadataPrefix = "__chord_"

// ChordStorage provides a Chord-specific wrapper around the generic MemoryStorage.
// It handles automatic key hashing and provides typed methods for Chord metadata.
type ChordStorage struct {
	storage *pkg.MemoryStorage
}

// NewChordStorage creates a new ChordStorage instance wrapping the provided MemoryStorage.
func NewChordStorage(storage *pkg.MemoryStorage) *ChordStorage {
	return &ChordStorage{
		storage: storage,
	}
}

// NewDefaultChordStorage creates a ChordStorage with default MemoryStorage configuration.
func NewDefaultChordStorage() *ChordStorage {
	memStorage := pkg.NewMemoryStorage(&pkg.MemoryConfig{
		CleanupInterval: 1 * time.Minute,
	})
	return NewChordStorage(memStorage)
}

// Get retrieves a value by key. The key is hashed to a Chord ID before lookup.
func (cs *ChordStorage) Get(ctx context.Context, key string) ([]byte, error) {
	hashedKey := cs.hashKey(key)
	return cs.storage.Get(ctx, hashedKey)
}

// Set stores a value with the given key and TTL. The key is hashed to a Chord ID.
// If TTL is 0, the value will not expire.
func (cs *ChordStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	hashedKey := cs.hashKey(key)
	return cs.storage.Set(ctx, hashedKey, value, ttl)
}

// Delete removes a key-value pair. The key is hashed to a Chord ID.
func (cs *ChordStorage) Delete(ctx context.Context, key string) error {
	hashedKey := cs.hashKey(key)
	return cs.storage.Delete(ctx, hashedKey)
}

// GetRaw retrieves a value by raw key (without hashing).
// This is useful for internal metadata storage.
func (cs *ChordStorage) GetRaw(ctx context.Context, key string) ([]byte, error) {
	return cs.storage.Get(ctx, key)
}

// SetRaw stores a value with raw key (without hashing).
// This is useful for internal metadata storage.
func (cs *ChordStorage) SetRaw(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return cs.storage.Set(ctx, key, value, ttl)
}

// DeleteRaw removes a key-value pair by raw key (without hashing).
func (cs *ChordStorage) DeleteRaw(ctx context.Context, key string) error {
	return cs.storage.Delete(ctx, key)
}

// Close gracefully shuts down the storage.
func (cs *ChordStorage) Close() error {
	return cs.storage.Close()
}

// GetStats returns storage statistics.
func (cs *ChordStorage) GetStats() pkg.Stats {
	return cs.storage.GetStats()
}

// CountUserKeys returns the number of user keys (excluding Chord metadata).
// Chord metadata keys are prefixed with "__chord_" and should not be counted.
func (cs *ChordStorage) CountUserKeys(ctx context.Context) (int, error) {
	userKeys, err := cs.storage.GetAllWithoutPrefix(ctx, chordMetadataPrefix)
	if err != nil {
		return 0, err
	}
	return len(userKeys), nil
}

// hashKey converts a string key to a hex string representation of its Chord ID.
// This ensures consistent hashing across the system.
func (cs *ChordStorage) hashKey(key string) string {
	id := hash.HashString(key)
	return id.Text(16) // Use hex encoding for string key
}

// HashKeyToID converts a string key to its Chord ID.
// This is useful for determining which node should store a key.
func (cs *ChordStorage) HashKeyToID(key string) *big.Int {
	return hash.HashString(key)
}

// IsResponsibleFor checks if a given node ID is responsible for storing a key.
// A node is responsible for keys in the range (predecessor, node].
func IsResponsibleFor(nodeID, predecessorID, keyID *big.Int) bool {
	if predecessorID == nil {
		// No predecessor means this is the only node, responsible for all keys
		return true
	}
	return hash.InRange(keyID, predecessorID, nodeID)
}

// GetKeysInRange returns all keys whose hash falls in the range (start, end].
// This is used for data migration when nodes join or leave.
// Excludes Chord metadata keys (those starting with "__chord_") to prevent
// corruption of node state during migration.
func (cs *ChordStorage) GetKeysInRange(ctx context.Context, startID, endID *big.Int) (map[string][]byte, error) {
	// Get all user keys from storage, metadata already excluded
	allKeys, err := cs.storage.GetAllWithoutPrefix(ctx, chordMetadataPrefix)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte)

	// Filter keys based on the range
	for hashedKey, value := range allKeys {
		// Convert hex string back to big.Int
		keyID := new(big.Int)
		_, success := keyID.SetString(hashedKey, 16)
		if !success {
			// Invalid hex string, skip it (likely metadata or corrupted data)
			continue
		}

		// Check if key is in range (start, end]
		if hash.InRange(keyID, startID, endID) {
			result[hashedKey] = value
		}
	}

	return result, nil
}

// DeleteKeysInRange deletes all keys whose hash falls in the range (start, end].
// Returns the number of keys deleted.
// Note: GetKeysInRange already excludes Chord metadata keys, so this is safe.
func (cs *ChordStorage) DeleteKeysInRange(ctx context.Context, startID, endID *big.Int) (int, error) {
	// Get keys in range (excludes metadata keys automatically)
	keys, err := cs.GetKeysInRange(ctx, startID, endID)
	if err != nil {
		return 0, err
	}

	// Delete each key
	for hashedKey := range keys {
		if err := cs.storage.Delete(ctx, hashedKey); err != nil {
			return 0, err
		}
	}

	return len(keys), nil
}
