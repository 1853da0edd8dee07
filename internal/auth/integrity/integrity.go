// Package integrity implements the content-derived integrity token (hid)
// attached to outbound user records and verified on inbound updates.
package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Hasher computes and verifies the hid token for a user record. The digest
// covers the server-side prefix plus the mutable fields name and email; age
// and id are deliberately excluded. The prefix never leaves the process.
type Hasher struct {
	prefix string
}

func NewHasher(prefix string) *Hasher {
	return &Hasher{prefix: prefix}
}

// Sum returns the padded URL-safe base64 encoding of
// sha256(prefix + name + email). Same inputs always produce the same hid.
func (h *Hasher) Sum(name, email string) string {
	digest := sha256.Sum256([]byte(h.prefix + name + email))
	return base64.URLEncoding.EncodeToString(digest[:])
}

// Verify recomputes the digest from name and email and compares it to the
// submitted hid in constant time.
func (h *Hasher) Verify(name, email, hid string) bool {
	want := h.Sum(name, email)
	return subtle.ConstantTimeCompare([]byte(want), []byte(hid)) == 1
}
