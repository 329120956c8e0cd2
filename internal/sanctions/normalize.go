package sanctions

import (
	"fmt"
	"strings"

	"github.com/hollyoak/warden/internal/model"
)

// PUIDLength is the canonical length of a platform product user ID
const PUIDLength = 32

// Normalizer converts a raw identity into the canonical form the external
// authority requires, or errors when no canonical form exists
type Normalizer func(raw model.PlayerID) (string, error)

// NormalizePUID is the default normalizer: lowercase, strip everything
// that is not a hex digit, and require exactly 32 hex characters.
func NormalizePUID(raw model.PlayerID) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(string(raw)) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			b.WriteRune(r)
		}
	}
	puid := b.String()
	if len(puid) != PUIDLength {
		return "", fmt.Errorf("%w: %q does not normalize to a %d-char product user id", model.ErrInvalidIdentity, raw, PUIDLength)
	}
	return puid, nil
}
