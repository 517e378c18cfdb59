package app

import (
	"github.com/arodd/go-cbzflat/internal/log"
	"github.com/schollz/progressbar/v3"
)

// progress renders a per-archive bar. A nil bar makes every method a no-op.
type progress struct {
	description string
	logger      *log.Logger
	bar         *progressbar.ProgressBar
}

func newProgress(enabled bool, logger *log.Logger, description string) *progress {
	if !enabled {
		return &progress{}
	}
	return &progress{description: description, logger: logger}
}

func (p *progress) update(done, total int) {
	if p.logger == nil {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.logger.ProgressWriter()),
			progressbar.OptionSetDescription(p.description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(done)
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
