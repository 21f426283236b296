// Package report renders aggregated statistics for the CLI. The engine
// itself never formats output; it hands a Stats value to one of these
// reporters and is done.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/vk/decisim/internal/runner"
	"github.com/vk/decisim/internal/schema"
)

// Reporter receives run results and owns all formatting.
type Reporter interface {
	Report(meta schema.Metadata, stats *runner.Stats) error
	ReportComparison(meta schema.Metadata, results map[string]*runner.Stats) error
}

// JSON writes results as indented JSON.
type JSON struct {
	W io.Writer
}

func (r *JSON) Report(meta schema.Metadata, stats *runner.Stats) error {
	return r.encode(map[string]any{
		"simulation": meta,
		"stats":      stats,
	})
}

func (r *JSON) ReportComparison(meta schema.Metadata, results map[string]*runner.Stats) error {
	return r.encode(map[string]any{
		"simulation": meta,
		"scenarios":  results,
	})
}

func (r *JSON) encode(v any) error {
	enc := json.NewEncoder(r.W)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes a human-readable summary table plus per-output histograms.
type Table struct {
	W io.Writer
}

const histogramWidth = 40

func (r *Table) Report(meta schema.Metadata, stats *runner.Stats) error {
	fmt.Fprintf(r.W, "%s (%s v%s) — %d iterations, %d failed, seed %d\n\n",
		meta.Name, meta.ID, meta.Version, stats.Iterations, stats.Failures, stats.Seed)

	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "output\tcount\tmean\tstddev\tmin\tp10\tp50\tp90\tmax")
	for _, key := range sortedOutputKeys(stats) {
		o := stats.Outputs[key]
		fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			key, o.Count, o.Mean, o.StdDev, o.Min,
			o.Percentiles.P10, o.Percentiles.P50, o.Percentiles.P90, o.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, key := range sortedOutputKeys(stats) {
		fmt.Fprintf(r.W, "\n%s\n", key)
		writeHistogram(r.W, stats.Outputs[key].Histogram)
	}
	return nil
}

func (r *Table) ReportComparison(meta schema.Metadata, results map[string]*runner.Stats) error {
	scenarios := make([]string, 0, len(results))
	for name := range results {
		scenarios = append(scenarios, name)
	}
	sort.Strings(scenarios)

	fmt.Fprintf(r.W, "%s (%s v%s) — %s\n\n", meta.Name, meta.ID, meta.Version, strings.Join(scenarios, " vs "))

	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "scenario\toutput\tcount\tmean\tstddev\tp10\tp50\tp90")
	for _, name := range scenarios {
		stats := results[name]
		for _, key := range sortedOutputKeys(stats) {
			o := stats.Outputs[key]
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
				name, key, o.Count, o.Mean, o.StdDev,
				o.Percentiles.P10, o.Percentiles.P50, o.Percentiles.P90)
		}
	}
	return tw.Flush()
}

func writeHistogram(w io.Writer, bins []runner.Bin) {
	peak := 0
	for _, b := range bins {
		if b.Count > peak {
			peak = b.Count
		}
	}
	if peak == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range bins {
		bar := strings.Repeat("#", b.Count*histogramWidth/peak)
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", b.Label, b.Count, bar)
	}
	tw.Flush()
}

func sortedOutputKeys(stats *runner.Stats) []string {
	keys := make([]string, 0, len(stats.Outputs))
	for k := range stats.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
