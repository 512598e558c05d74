// core/fastq/parser.go
package fastq

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ScanGroups reads lines from r and emits one RawGroup per four lines,
// grouping strictly by position modulo 4. Single pass, not restartable.
// A trailing partial group (total line count not a multiple of 4) is
// discarded, not emitted: truncated tails are routine in chunked QC input.
//
// It is cancelable: returning promptly when ctx is Done, even mid-group.
func ScanGroups(ctx context.Context, r io.Reader, emit func(RawGroup) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024 // long-read platforms produce MiB-scale lines
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var g RawGroup
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch n % 4 {
		case 0:
			g.Header = line
		case 1:
			g.Sequence = line
		case 2:
			g.Separator = line
		case 3:
			g.Quality = line
			if err := emit(g); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fastq scan: %w", err)
	}
	return nil
}
