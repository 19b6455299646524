package cli

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/kailas-cloud/vecjudge/internal/ingest"
)

// fileProgress renders per-file progress of a corpus load.
type fileProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// newProgress returns a reporter writing to w, or nil when w is not a terminal.
func newProgress(w io.Writer) ingest.ProgressReporter {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return &fileProgress{w: w}
}

func (p *fileProgress) Start(total int) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("loading"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *fileProgress) Increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *fileProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
