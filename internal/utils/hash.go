// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool is a package-level pool of reusable SHA-384 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha512.New384()
	},
}

// Hash computes a SHA-384 digest over data using a hasher pulled from the
// package pool.
//
// Behavior:
//   - Retrieves a hash.Hash instance from sync.Pool
//   - Resets it, writes the data, computes the sum
//   - Resets again and returns it to the pool
//
// Example usage:
//
//	digest := utils.Hash([]byte("some data"))
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashHex returns the hex-encoded SHA-384 digest of data (96 characters).
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}
