package utils

import "crypto/sha256"

// Length of a hex encoded SHA-256 digest.
const HASH_HEX_LENGTH = sha256.Size * 2

// Hash message using SHA256
func SHA256(msg []byte) []byte {
	digest := sha256.Sum256(msg)
	return digest[:]
}
