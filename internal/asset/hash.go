package asset

import (
	"crypto/sha1"
	"encoding/hex"
)

// Digest returns the lowercase hex SHA-1 of data. It is used as the ETag of an asset.
func Digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
