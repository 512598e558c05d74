// core/fastq/reader.go
package fastq

import (
	"context"
)

// StreamGroupsCtx is the ctx-aware channel wrapper around ScanGroups for a
// file path. Semantics:
//   - gzip and "-" for stdin are handled the same way (early open error for
//     non-stdin paths)
//   - channel-based API
//   - scan-time errors are reported on the returned error channel
func StreamGroupsCtx(ctx context.Context, path string) (<-chan RawGroup, <-chan error, error) {
	// Preserve immediate error reporting for non-stdin paths.
	if path != "-" {
		rc, err := Open(path)
		if err != nil {
			return nil, nil, err
		}
		_ = rc.Close()
	}

	out := make(chan RawGroup, 64)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		rc, err := Open(path)
		if err != nil {
			errCh <- err
			return
		}
		defer func() { _ = rc.Close() }()
		errCh <- ScanGroups(ctx, rc, func(g RawGroup) error {
			select {
			case out <- g:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, errCh, nil
}

// StreamGroups remains as the convenience helper using a background context.
func StreamGroups(path string) (<-chan RawGroup, <-chan error, error) {
	return StreamGroupsCtx(context.Background(), path)
}
