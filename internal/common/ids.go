// internal/common/ids.go
package common

import (
	"fmt"
	"strconv"
	"strings"
)

const chunkSep = "#chunk"

// ChunkSource names the chunk cut from file at (1-based) index idx.
func ChunkSource(file string, idx int) string {
	return fmt.Sprintf("%s%s%03d", file, chunkSep, idx)
}

// SplitChunkSource extracts the file and chunk index if the input looks
// like "path#chunk003". It returns file, index, ok.
func SplitChunkSource(source string) (string, int, bool) {
	sep := strings.LastIndex(source, chunkSep)
	if sep == -1 {
		return source, 0, false
	}
	idx, err := strconv.Atoi(source[sep+len(chunkSep):])
	if err != nil {
		return source, 0, false
	}
	return source[:sep], idx, true
}
