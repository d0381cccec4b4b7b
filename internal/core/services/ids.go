package services

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// SourceID derives the stable source ID of an origin.
func SourceID(origin string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(origin)).String()
}

// DocumentID derives the stable document ID of an origin.
func DocumentID(origin string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("doc:"+origin)).String()
}

// ContentHash returns the hex SHA-256 of a raw payload.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
