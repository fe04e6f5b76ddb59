package util

import (
	"fmt"
	"io"
	"math"
	"strings"

	"flavorquest/models/venue"
	"flavorquest/openinghours"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderWeeklyHoursChart writes an HTML bar chart of the venue's opening
// hours per weekday, Monday first.
func RenderWeeklyHoursChart(w io.Writer, v venue.Venue) error {
	minutes := openinghours.OpenMinutes(v.OpeningHours)

	days := make([]string, 0, len(openinghours.Week))
	bars := make([]opts.BarData, 0, len(openinghours.Week))
	for _, day := range openinghours.Week {
		days = append(days, dayLabel(day))
		hours := math.Round(float64(minutes[day])/60*100) / 100
		bars = append(bars, opts.BarData{Name: string(day), Value: hours})
	}

	subtitle := "Opening hours per day"
	if v.OpeningHours == nil {
		subtitle = openinghours.LabelHoursUnknown
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: v.VenueName + " - weekly hours",
			Width:     "800px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    v.VenueName,
			Subtitle: subtitle,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "hours",
			Max:  24,
		}),
	)

	bar.SetXAxis(days).AddSeries("Open", bars,
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(true),
		}),
	)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render hours chart for %s: %w", v.VenueID, err)
	}
	return nil
}

func dayLabel(d openinghours.Day) string {
	s := string(d)
	if len(s) < 3 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:3]
}
