package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"knapsackga/internal/model"
)

// ReportOptions controls console rendering. Color is only meaningful when the
// writer is a terminal; callers decide that.
type ReportOptions struct {
	Color bool
	Now   time.Time
}

func newTable(w io.Writer, title string, opts ReportOptions) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if title != "" {
		t.SetTitle(title)
	}
	if opts.Color {
		t.SetStyle(table.StyleColoredBright)
	} else {
		t.SetStyle(table.StyleLight)
	}
	return t
}

// RenderRun writes the summary, best solution and (sampled) fitness history
// of a single run.
func RenderRun(w io.Writer, record model.RunRecord, opts ReportOptions) {
	t := newTable(w, "Run "+record.RunID, opts)
	t.AppendRows([]table.Row{
		{"Catalog", record.Catalog},
		{"Created", createdLabel(record.CreatedAtUTC, opts.Now)},
		{"Population", humanize.Comma(int64(record.PopulationSize))},
		{"Weight limit", humanize.Comma(int64(record.WeightLimit))},
		{"Fitness limit", humanize.Comma(int64(record.FitnessLimit))},
		{"Selection", record.Selection},
		{"Mutation", fmt.Sprintf("%d x p=%g", record.Mutations, record.MutationProbability)},
		{"Seed", record.Seed},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Generation", fmt.Sprintf("%d of %d", record.Generation, record.GenerationLimit)},
		{"Terminated", record.Terminated},
		{"Evaluations", humanize.Comma(int64(record.Evaluations))},
		{"Elapsed", (time.Duration(record.ElapsedMS) * time.Millisecond).String()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Best fitness", humanize.Comma(int64(record.BestFitness))},
		{"Best genome", genomeString(record.BestGenome)},
		{"Best items", strings.Join(record.BestItems, ", ")},
	})
	t.Render()

	if len(record.Items) > 0 {
		RenderSolution(w, record.Items, record.BestGenome, opts)
	}
	if len(record.Diagnostics) > 0 {
		RenderDiagnostics(w, record.Diagnostics, 10, opts)
	}
}

// RenderSolution lists every item with whether the genome packs it.
func RenderSolution(w io.Writer, items []model.Item, genome model.Genome, opts ReportOptions) {
	t := newTable(w, "Solution", opts)
	t.AppendHeader(table.Row{"ITEM", "VALUE", "WEIGHT", "PACKED"})
	value, weight := 0, 0
	for i, item := range items {
		packed := i < len(genome) && genome[i] == 1
		mark := ""
		if packed {
			mark = "x"
			value += item.Value
			weight += item.Weight
		}
		t.AppendRow(table.Row{item.Name, humanize.Comma(int64(item.Value)), humanize.Comma(int64(item.Weight)), mark})
	}
	t.AppendFooter(table.Row{"TOTAL", humanize.Comma(int64(value)), humanize.Comma(int64(weight)), ""})
	t.Render()
}

// RenderDiagnostics prints at most maxRows generations, always keeping the
// first and the last.
func RenderDiagnostics(w io.Writer, diagnostics []model.GenerationDiagnostics, maxRows int, opts ReportOptions) {
	t := newTable(w, "Generations", opts)
	t.AppendHeader(table.Row{"GEN", "BEST", "WORST", "MEAN", "STDDEV", "ZERO", "DISTINCT"})
	for _, i := range sampleIndexes(len(diagnostics), maxRows) {
		d := diagnostics[i]
		t.AppendRow(table.Row{
			d.Generation,
			humanize.Comma(int64(d.BestFitness)),
			humanize.Comma(int64(d.WorstFitness)),
			fmt.Sprintf("%.1f", d.MeanFitness),
			fmt.Sprintf("%.1f", d.StdDevFitness),
			d.ZeroFitness,
			d.Distinct,
		})
	}
	t.Render()
}

// RenderRuns lists stored runs, newest first as given.
func RenderRuns(w io.Writer, records []model.RunRecord, opts ReportOptions) {
	t := newTable(w, "Runs", opts)
	t.AppendHeader(table.Row{"RUN", "CREATED", "CATALOG", "POP", "GEN", "BEST", "TERMINATED"})
	for _, record := range records {
		t.AppendRow(table.Row{
			record.RunID,
			createdLabel(record.CreatedAtUTC, opts.Now),
			record.Catalog,
			record.PopulationSize,
			record.Generation,
			humanize.Comma(int64(record.BestFitness)),
			record.Terminated,
		})
	}
	t.Render()
}

// RenderCatalog prints the items of a catalog with their totals.
func RenderCatalog(w io.Writer, name string, items []model.Item, opts ReportOptions) {
	t := newTable(w, "Catalog "+name, opts)
	t.AppendHeader(table.Row{"#", "ITEM", "VALUE", "WEIGHT"})
	value, weight := 0, 0
	for i, item := range items {
		value += item.Value
		weight += item.Weight
		t.AppendRow(table.Row{i, item.Name, humanize.Comma(int64(item.Value)), humanize.Comma(int64(item.Weight))})
	}
	t.AppendFooter(table.Row{"", "TOTAL", humanize.Comma(int64(value)), humanize.Comma(int64(weight))})
	t.Render()
}

func createdLabel(createdAtUTC string, now time.Time) string {
	created, err := time.Parse(time.RFC3339, createdAtUTC)
	if err != nil {
		return createdAtUTC
	}
	if now.IsZero() {
		now = time.Now()
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

func genomeString(genome model.Genome) string {
	var b strings.Builder
	for _, bit := range genome {
		fmt.Fprint(&b, bit)
	}
	return b.String()
}

func sampleIndexes(n, maxRows int) []int {
	if n <= 0 {
		return nil
	}
	if maxRows <= 0 || n <= maxRows {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if maxRows == 1 {
		return []int{n - 1}
	}
	out := make([]int, 0, maxRows)
	step := float64(n-1) / float64(maxRows-1)
	last := -1
	for i := 0; i < maxRows; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx >= n {
			idx = n - 1
		}
		if idx != last {
			out = append(out, idx)
			last = idx
		}
	}
	return out
}
