// internal/progress/progress.go
package progress

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Bar wraps a pb progress bar counting completed chunks. A nil inner bar
// makes every method a no-op, so call sites never branch on --progress.
type Bar struct {
	bar *pb.ProgressBar
}

// Start returns a running bar over total chunks writing to out, or an inert
// one when disabled.
func Start(total int, out io.Writer, enabled bool) *Bar {
	if !enabled || total <= 0 {
		return &Bar{}
	}
	b := pb.New(total)
	b.SetWriter(out)
	b.Start()
	return &Bar{bar: b}
}

// Increment marks one chunk done.
func (b *Bar) Increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

// Finish stops the bar.
func (b *Bar) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}
