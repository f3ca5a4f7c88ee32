package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
)

// Output formats accepted by render --format.
const (
	formatSVG     = "svg"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
	formatText    = "text"
	formatSummary = "summary"
)

func addChartFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("date", "", "chart time, RFC3339 (default now)")
	f.Float64("lat", 0, "observer latitude, north positive")
	f.Float64("lon", 0, "observer longitude, east positive")
	f.Float64("size", 600, "chart size in pixels")
	f.String("glyphs", "unicode", "glyph set (unicode, font)")
}

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Cast a chart and write it once",
		Example: `  ls-natal render --date 1990-05-05T05:05:00Z --lat 51.48 --lon 0 -o chart.svg
  ls-natal render --format summary
  ls-natal render --format text --cols 100 --rows 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a)
		},
	}
	addChartFlags(cmd)
	f := cmd.Flags()
	f.String("format", formatSVG, "output format (svg, json, msgpack, text, summary)")
	f.StringP("output", "o", "", "output file (default stdout)")
	f.Bool("no-primitives", false, "omit drawing primitives from json and msgpack output")
	f.Int("cols", 80, "terminal columns for text output")
	f.Int("rows", 40, "terminal rows for text output")
	f.Bool("color", false, "colour text output (default when stdout is a terminal)")
	return cmd
}

func runRender(cmd *cobra.Command, a *app) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatSVG, formatJSON, formatMsgpack, formatText, formatSummary:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	s := a.settings
	when, err := s.Time(time.Now())
	if err != nil {
		return err
	}

	start := time.Now()
	ch, err := chart.Render(a.provider, chart.Request{Time: when, Observer: s.Observer()}, s.Dimensions(), s.Theme())
	if err != nil {
		return err
	}
	a.log.Debug("rendered %d primitives, %d aspects in %v", len(ch.Primitives), len(ch.Aspects), time.Since(start))

	path, _ := cmd.Flags().GetString("output")
	w, closeOut, err := output(cmd, path)
	if err != nil {
		return err
	}

	glyphs := render.ParseGlyphSet(s.Glyphs)
	noPrims, _ := cmd.Flags().GetBool("no-primitives")

	switch format {
	case formatSVG:
		err = render.WriteSVG(w, ch.Dimensions, ch.Primitives, glyphs)
	case formatJSON:
		err = render.ExportChart(ch, glyphs, !noPrims).WriteJSON(w)
	case formatMsgpack:
		err = render.ExportChart(ch, glyphs, !noPrims).WriteMsgpack(w)
	case formatSummary:
		render.WriteSummary(w, ch)
	case formatText:
		cols, _ := cmd.Flags().GetInt("cols")
		rows, _ := cmd.Flags().GetInt("rows")
		canvas := render.NewCanvas(cols, rows, ch.Dimensions)
		canvas.Paint(ch.Primitives, glyphs)

		color, _ := cmd.Flags().GetBool("color")
		if !cmd.Flags().Changed("color") && path == "" {
			color = term.IsTerminal(int(os.Stdout.Fd()))
		}
		if color {
			_, err = fmt.Fprintln(w, canvas.String())
		} else {
			_, err = fmt.Fprintln(w, canvas.Plain())
		}
	}

	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}
