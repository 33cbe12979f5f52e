package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// TimestampLayout is the timestamp format embedded in output file names.
const TimestampLayout = "20060102_150405"

// VersionedFilename returns the path of a new output file in dir named
// "<prefix><timestamp>_v<N><suffix>". N is one more than the highest version already
// present in dir for the same prefix, timestamp and suffix. dir is created if needed.
func VersionedFilename(dir, prefix, suffix string, now time.Time) (string, error) {
	if dir == "" {
		return "", ErrEmptyDirectory
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	stamp := now.Format(TimestampLayout)
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix+stamp+"_v") + `(\d+)` + regexp.QuoteMeta(suffix) + "$")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list output directory %s: %w", dir, err)
	}

	version := 0
	for _, entry := range entries {
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if n, convErr := strconv.Atoi(m[1]); convErr == nil && n > version {
			version = n
		}
	}

	name := fmt.Sprintf("%s%s_v%d%s", prefix, stamp, version+1, suffix)
	return filepath.Join(dir, name), nil
}
