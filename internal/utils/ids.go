package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SessionKeyFromPath extracts the session id from a Dialogflow session path.
// "projects/p/agent/sessions/abc" and "projects/p/agent/environments/e/users/u/sessions/abc"
// both give "abc". Anything without a "/sessions/" segment is returned trimmed as is.
func SessionKeyFromPath(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.LastIndex(path, "/sessions/"); i >= 0 {
		return path[i+len("/sessions/"):]
	}
	return path
}

// NewUploadPath names a fresh prescription photo object under the session's folder
func NewUploadPath(sessionKey string) string {
	return fmt.Sprintf("%s/%s.jpg", sessionKey, uuid.NewString())
}
