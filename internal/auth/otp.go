package auth

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateOTP returns a short one-time passcode, the first segment of a
// random UUID.
func GenerateOTP() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
