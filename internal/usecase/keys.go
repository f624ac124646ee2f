package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"AplusBackend/internal/domain"
)

const maxKeyNameLen = 80

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArtifactKey builds plans/<plan>/<kind>/<token>_<name>.txt. The token keeps
// repeated sources in one request from overwriting each other.
func ArtifactKey(planID int64, kind domain.SourceKind, source string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("plans/%d/%s/%s_%s.txt", planID, kind, token, sanitizeKeyName(source))
}

func sanitizeKeyName(source string) string {
	name := source
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
	}
	name = unsafeKeyChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._-")
	if len(name) > maxKeyNameLen {
		name = name[:maxKeyNameLen]
	}
	if name == "" {
		return "item"
	}
	return name
}
