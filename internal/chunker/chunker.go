// Package chunker splits FASTQ streams into fixed-size chunk files so
// that runs can be distributed across processes and their reports merged
// afterwards.
package chunker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gzip "github.com/klauspost/pgzip"

	"seqqc-core/fastq"
)

// Config controls how an input file is split.
type Config struct {
	// Reads per chunk file. Must be positive.
	ChunkReads int
	// Directory chunk files are written into. Created if absent.
	OutDir string
	// Prefix for chunk file names; defaults to the input base name with
	// FASTQ extensions stripped.
	Prefix string
	// Compress output chunks with gzip.
	Gzip bool
	// OnChunk, when set, is called after each chunk file is closed.
	OnChunk func(path string, reads int)
}

// Chunk holds the location and size of one written chunk file.
type Chunk struct {
	Path  string `json:"path"`
	Reads int    `json:"reads"`
}

type chunkWriter struct {
	f   *os.File
	gz  *gzip.Writer
	buf *bufio.Writer
}

func newChunkWriter(path string, gzipped bool) (*chunkWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw := &chunkWriter{f: f}
	if gzipped {
		cw.gz = gzip.NewWriter(f)
		cw.buf = bufio.NewWriter(cw.gz)
	} else {
		cw.buf = bufio.NewWriter(f)
	}
	return cw, nil
}

func (cw *chunkWriter) writeGroup(g fastq.RawGroup) error {
	for _, line := range []string{g.Header, g.Sequence, g.Separator, g.Quality} {
		if _, err := cw.buf.WriteString(line); err != nil {
			return err
		}
		if err := cw.buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func (cw *chunkWriter) Close() error {
	if err := cw.buf.Flush(); err != nil {
		cw.f.Close()
		return err
	}
	if cw.gz != nil {
		if err := cw.gz.Close(); err != nil {
			cw.f.Close()
			return err
		}
	}
	return cw.f.Close()
}

// basePrefix strips .gz and FASTQ extensions from a file name.
func basePrefix(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	for _, ext := range []string{".fastq", ".fq"} {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" || name == "-" {
		name = "stdin"
	}
	return name
}

// Split reads the FASTQ at path and writes consecutive chunks of
// cfg.ChunkReads records each into cfg.OutDir. Records are passed through
// verbatim; no validation beyond the 4-line framing is applied, so a
// later per-chunk run sees exactly the records the source held.
func Split(ctx context.Context, path string, cfg Config) ([]Chunk, error) {
	if cfg.ChunkReads <= 0 {
		return nil, fmt.Errorf("chunker: chunk size must be positive, got %d", cfg.ChunkReads)
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = basePrefix(path)
	}
	ext := ".fastq"
	if cfg.Gzip {
		ext = ".fastq.gz"
	}

	r, err := fastq.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var (
		chunks []Chunk
		cw     *chunkWriter
		cur    Chunk
	)
	closeCur := func() error {
		if cw == nil {
			return nil
		}
		err := cw.Close()
		cw = nil
		if err != nil {
			return err
		}
		chunks = append(chunks, cur)
		if cfg.OnChunk != nil {
			cfg.OnChunk(cur.Path, cur.Reads)
		}
		return nil
	}

	scanErr := fastq.ScanGroups(ctx, r, func(g fastq.RawGroup) error {
		if cw == nil {
			name := fmt.Sprintf("%s.chunk%03d%s", prefix, len(chunks)+1, ext)
			cur = Chunk{Path: filepath.Join(cfg.OutDir, name)}
			var err error
			cw, err = newChunkWriter(cur.Path, cfg.Gzip)
			if err != nil {
				return err
			}
		}
		if err := cw.writeGroup(g); err != nil {
			return err
		}
		cur.Reads++
		if cur.Reads >= cfg.ChunkReads {
			return closeCur()
		}
		return nil
	})
	if scanErr != nil {
		if cw != nil {
			cw.Close()
			os.Remove(cur.Path)
		}
		return chunks, scanErr
	}
	if err := closeCur(); err != nil {
		return chunks, err
	}
	return chunks, nil
}
