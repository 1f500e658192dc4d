package ledger

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// newID generates a collision-resistant transaction id: a random UUID when
// the random source cooperates, otherwise a timestamp plus random suffix.
// The fallback is weakly unique; collisions are accepted, not detected.
func newID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > 7 {
		suffix = suffix[:7]
	}
	return "id-" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + suffix
}
