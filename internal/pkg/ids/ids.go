package ids

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns a 32-char hex identifier. Used for every entity id and
// for chunk ids, so collisions across tables are not a concern.
func New() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
