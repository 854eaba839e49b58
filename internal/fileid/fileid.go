// Package fileid derives deterministic knowledge unit IDs for seed rows that carry none.
package fileid

import (
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

const prefix = "seed:"

// UnitID returns a stable unit ID for row of the seed file at absolutePath.
// Same path and row always yield the same ID, so re-importing a file replaces
// its units instead of duplicating them.
func UnitID(absolutePath string, row int) string {
	normalized := filepath.Clean(absolutePath)
	name := normalized + "#" + strconv.Itoa(row)
	return prefix + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
