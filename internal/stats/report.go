// Package stats renders a user's adherence report: a bar chart of daily
// dose counts with a text fallback when there is nothing to draw or the
// renderer fails.
package stats

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Sohiburr/ToBeControl/internal/domain"
)

const (
	chartTitle = "Kepatuhan Minum Obat (7 Hari Terakhir)"
	yAxisName  = "Jumlah Obat"
)

// Report is what the stats command sends back. Image is a PNG rendered
// entirely in memory, or nil when the report is text-only; Caption is the
// image caption or the whole message in the text-only case.
type Report struct {
	Image   []byte
	Caption string
}

// Build assembles the report. Daily data must already be in ascending
// date order; an empty slice or a renderer error both fall back to the
// total-only text, never to an error the caller has to handle.
func Build(daily []domain.DailyCount, total int64) Report {
	if len(daily) == 0 {
		return Report{Caption: textSummary(total, false)}
	}

	png, err := renderBarChart(daily)
	if err != nil {
		return Report{Caption: textSummary(total, true)}
	}
	return Report{
		Image:   png,
		Caption: fmt.Sprintf("📊 Laporan Kepatuhan\nTotal minum obat: %d kali.\nTetap semangat sembuh! 💪", total),
	}
}

func textSummary(total int64, renderFailed bool) string {
	if renderFailed {
		return fmt.Sprintf("📊 Total: %d kali.\n(Gagal memuat gambar grafik).", total)
	}
	return fmt.Sprintf("📊 Kamu sudah minum obat %d kali totalnya.\n(Belum cukup data harian untuk grafik).", total)
}

func renderBarChart(daily []domain.DailyCount) ([]byte, error) {
	bars := make([]chart.Value, 0, len(daily))
	maxCount := 0
	for _, d := range daily {
		bars = append(bars, chart.Value{Label: d.Date, Value: float64(d.Count)})
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}

	graph := chart.BarChart{
		Title:    chartTitle,
		Width:    600,
		Height:   400,
		BarWidth: 50,
		XAxis: chart.Style{
			TextRotationDegrees: 45, // dates overlap when drawn flat
		},
		YAxis: chart.YAxis{
			Name: yAxisName,
			// An explicit range keeps the renderer working when every
			// bar has the same height; the derived range would be
			// zero-width and rejected.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
