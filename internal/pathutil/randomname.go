package pathutil

import "github.com/google/uuid"

// RandomStagingName returns a 12-character random alphanumeric name, used to
// stage an unpacked archive as a sibling of the store directory before the
// atomic rename into its final <package-id> location.
func RandomStagingName() string {
	id := uuid.New()
	return id.String()[:8] + id.String()[9:13]
}
