package uploads

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// StampedName derives the stored filename for an upload:
// <sanitized-base>_<YYYYMMDD>_<HHMMSS>_<mmm><ext>. Every character of the
// base outside [A-Za-z0-9_-] is replaced with an underscore; the extension is
// kept verbatim, leading dot included. The millisecond timestamp makes names
// unique across uploads within the process.
func StampedName(original string, now time.Time) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	base = unsafeChars.ReplaceAllString(base, "_")
	return fmt.Sprintf("%s_%s_%s_%03d%s",
		base,
		now.Format("20060102"),
		now.Format("150405"),
		now.Nanosecond()/int(time.Millisecond),
		ext)
}
