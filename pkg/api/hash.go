package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a BLAKE3 digest of the document's identity and content.
// The preview server uses it as an ETag and to drop no-op reloads.
func (d Document) Hash() string {
	h := blake3.New()

	h.Write([]byte{byte(d.Source.Kind)})
	h.Write([]byte(d.Source.Identity()))
	h.Write([]byte{0})

	h.Write([]byte(d.Content))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
