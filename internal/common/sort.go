// internal/common/sort.go
package common

import (
	"sort"

	"seqqc-core/reduce"
)

// LessChunk defines a stable order for chunk summaries: file, then chunk
// index, then raw source. Chunks complete in any order across workers;
// reports sort so identical inputs give identical bytes.
func LessChunk(a, b reduce.ChunkSummary) bool {
	af, ai, _ := SplitChunkSource(a.Source)
	bf, bi, _ := SplitChunkSource(b.Source)
	if af != bf {
		return af < bf
	}
	if ai != bi {
		return ai < bi
	}
	return a.Source < b.Source
}

func SortChunks(cs []reduce.ChunkSummary) {
	sort.Slice(cs, func(i, j int) bool { return LessChunk(cs[i], cs[j]) })
}
