package shutdown

import (
	"context"
	"io"
	"os"
)

// stdinBufSize is the size of the buffer stdin is drained through. Data read
// from stdin is discarded.
const stdinBufSize = 64

// Watch fires t when the first of its sources resolves, then returns:
//   - a value arrives on signals;
//   - stdin reaches end-of-stream, if stdin is non-nil.
//
// With a nil stdin the end-of-stream case can never be selected, so stdin
// activity cannot fire the latch. A read error other than io.EOF stops the
// stdin watch without firing. If ctx is done first, Watch returns without
// firing t.
func Watch(ctx context.Context, t Trigger, signals <-chan os.Signal, stdin io.Reader) {
	var eof <-chan struct{}
	if stdin != nil {
		eof = watchEOF(stdin)
	}
	select {
	case <-signals:
	case <-eof:
	case <-ctx.Done():
		return
	}
	t.Trigger()
}

// watchEOF drains r in the background and returns a channel that is closed
// when r reports end-of-stream. The goroutine exits on any read error; a
// reader that never returns keeps it blocked until the process exits.
func watchEOF(r io.Reader) <-chan struct{} {
	eof := make(chan struct{})
	go func() {
		buf := make([]byte, stdinBufSize)
		for {
			_, err := r.Read(buf)
			if err == io.EOF {
				close(eof)
				return
			} else if err != nil {
				return
			}
		}
	}()
	return eof
}
