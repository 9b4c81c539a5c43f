package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/weather"
)

type weatherFlags struct {
	json    bool
	timeout time.Duration
}

func newWeatherCmd(root *rootFlags) *cobra.Command {
	flags := weatherFlags{}
	cmd := &cobra.Command{
		Use:   "weather <place>",
		Short: "Fetch and print one weather report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeather(cmd.Context(), cmd.OutOrStdout(), root, flags, strings.Join(args, " "))
		},
	}
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the report as JSON")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 15*time.Second, "Give up after this long")
	return cmd
}

func runWeather(ctx context.Context, out io.Writer, root *rootFlags, flags weatherFlags, place string) error {
	rt, err := setup(root, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(ctx, flags.timeout)
	defer cancel()

	r, err := collectors.FetchAs[weather.Report](ctx, rt.sources, weather.SourceName, place)
	if err != nil {
		src, ok := rt.sources.Get(weather.SourceName)
		if !ok {
			return err
		}
		ws, ok := src.(*weather.Source)
		if !ok {
			return err
		}
		last, found := ws.LastKnown(place)
		if !found {
			return err
		}
		rt.logger.Warn().Err(err).Str("place", place).Msg("showing last known report")
		r = last
	}

	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	printReport(out, r)
	return nil
}

func printReport(w io.Writer, r weather.Report) {
	text, glyph := r.Condition()
	t, s := r.Units.TempSuffix(), r.Units.SpeedSuffix()
	fmt.Fprintf(w, "%s, %s\n", r.Location.Name, r.Location.Country)
	fmt.Fprintf(w, "%s  %.1f%s  %s\n", glyph, r.Temperature, t, text)
	fmt.Fprintf(w, "feels %.1f%s  humidity %d%%  wind %.0f %s\n", r.FeelsLike, t, r.Humidity, r.WindSpeed, s)
	for _, d := range r.Days {
		_, g := weather.Describe(d.Code)
		fmt.Fprintf(w, "%s  %s  %.0f/%.0f%s\n", d.Date, g, d.High, d.Low, t)
	}
	if r.Stale {
		fmt.Fprintf(w, "(cached, as of %s)\n", r.FetchedAt.Local().Format("Jan 2 15:04"))
	}
}
