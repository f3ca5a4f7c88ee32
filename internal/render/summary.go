package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// WriteSummary writes a plain text table of a chart.
func WriteSummary(w io.Writer, ch chart.Chart) {
	obs := ch.Request.Observer
	fmt.Fprintf(w, "Natal chart @ %s  %s\n", ch.Request.Time.UTC().Format(time.RFC3339), obs)
	fmt.Fprintf(w, "JD %.5f  %s chart\n", ch.JulianDay, dayNight(ch.DayChart))
	fmt.Fprintln(w, strings.Repeat("─", 56))

	fmt.Fprintf(w, "%-8s %-12s %9s %-10s %s\n", "Body", "Position", "Speed", "Dignity", "R")
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for _, p := range ch.Planets {
		retro := ""
		if p.Retrograde() {
			retro = "R"
		}
		fmt.Fprintf(w, "%-8s %-12s %+8.4f° %-10s %s\n",
			p.Body, zodiac.FormatLongitude(p.Longitude), p.Speed, ch.Dignities[p.Body], retro)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-8s %-12s %-8s %-12s\n", "House", "Cusp", "House", "Cusp")
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for i := 0; i < 6; i++ {
		fmt.Fprintf(w, "%-8s %-12s %-8s %-12s\n",
			houseLabel(i), zodiac.FormatLongitude(ch.Houses[i]),
			houseLabel(i+6), zodiac.FormatLongitude(ch.Houses[i+6]))
	}
	fmt.Fprintf(w, "\nPart of Fortune: %s\n", zodiac.FormatLongitude(ch.PartOfFortune))

	fmt.Fprintln(w)
	if len(ch.Aspects) == 0 {
		fmt.Fprintln(w, "No aspects")
		return
	}
	fmt.Fprintln(w, "Aspects")
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for _, a := range ch.Aspects {
		fmt.Fprintf(w, "%-8s %-12s %s\n", a.A, a.Kind, a.B)
	}
	fmt.Fprintf(w, "\nTotal: %d aspects\n", len(ch.Aspects))
}

func houseLabel(i int) string {
	switch i {
	case 0:
		return "1 ASC"
	case 9:
		return "10 MC"
	default:
		return fmt.Sprintf("%d", i+1)
	}
}

func dayNight(day bool) string {
	if day {
		return "day"
	}
	return "night"
}
