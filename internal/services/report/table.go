package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/phambaophuc/image-shrink/internal/models"
)

// RenderFileTypes writes the per-MIME-type file counts of the folder.
func RenderFileTypes(w io.Writer, summary *models.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"File type", "Files"})
	for _, mimeType := range summary.SortedMIMETypes() {
		t.AppendRow(table.Row{mimeType, summary.MIMETypes[mimeType]})
	}
	t.AppendFooter(table.Row{"Total", summary.TotalFiles})
	t.Render()
}

// RenderResults writes one row per processed image plus totals.
func RenderResults(w io.Writer, summary *models.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"File", "Status", "Original", "Compressed", "Quality", "Note"})

	for _, r := range summary.Results {
		if r.Succeeded() {
			note := ""
			if !r.WithinBudget {
				note = "over budget at minimum quality"
			}
			t.AppendRow(table.Row{
				r.FileName,
				r.Status,
				humanize.IBytes(uint64(r.OriginalSize)),
				humanize.IBytes(uint64(r.CompressedSize)),
				r.Quality,
				note,
			})
			continue
		}
		t.AppendRow(table.Row{
			r.FileName,
			r.Status,
			humanize.IBytes(uint64(r.OriginalSize)),
			"-",
			"-",
			fmt.Sprintf("%s: %s", r.Stage, r.Reason),
		})
	}

	original, compressed := summary.Savings()
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d compressed, %d skipped", summary.Succeeded(), summary.Skipped()),
		"",
		humanize.IBytes(uint64(original)),
		humanize.IBytes(uint64(compressed)),
		"",
		"",
	})
	t.Render()
}
