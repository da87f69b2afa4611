package pipeline

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// newProgressBar returns a bar drawn on w, or a silent one when w is nil.
func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(int64(total))
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Compressing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
