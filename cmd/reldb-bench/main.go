// Command reldb-bench compares scan-based and index-based access paths for
// each index kind on generated Student/Transcript data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"relDB/internal/gen"
	"relDB/internal/index"
	"relDB/internal/logger"
	"relDB/internal/table"
	"relDB/internal/types"
)

var log = logger.NewLogger()

type result struct {
	kind       index.Kind
	load       time.Duration
	scanSelect time.Duration
	keySelect  time.Duration
	keyMiss    time.Duration
	join       time.Duration
	ijoin      time.Duration
	joinRows   int
}

func main() {
	n := flag.Int("n", 2000, "number of Student tuples; Transcript gets twice as many")
	probes := flag.Int("probes", 100, "number of point lookups per access path")
	kinds := flag.String("kinds", "", "comma-separated index kinds to compare (default: every indexed kind)")
	seed := flag.Int64("seed", 1, "generator seed")
	flag.Parse()

	ks, err := parseKinds(*kinds)
	if err != nil {
		log.Error().Err(err).Msg("unusable index kinds")
		os.Exit(1)
	}

	results := make([]result, len(ks))
	g, ctx := errgroup.WithContext(context.Background())
	for i, k := range ks {
		i, k := i, k
		g.Go(func() error {
			r, err := run(ctx, k, *n, *probes, *seed)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("benchmark failed")
		os.Exit(1)
	}

	fmt.Print(report(results))
}

// parseKinds resolves a comma-separated kind list. An empty list selects
// every kind that has an index.
func parseKinds(list string) ([]index.Kind, error) {
	var ks []index.Kind
	if strings.TrimSpace(list) == "" {
		for _, k := range index.Kinds {
			if k != index.KindNone {
				ks = append(ks, k)
			}
		}
		return ks, nil
	}
	for _, s := range strings.Split(list, ",") {
		k, err := index.ParseKind(s)
		if err != nil {
			return nil, err
		}
		if k == index.KindNone {
			return nil, fmt.Errorf("kind %q has no index to compare", s)
		}
		ks = append(ks, k)
	}
	return ks, nil
}

func run(ctx context.Context, kind index.Kind, n, probes int, seed int64) (result, error) {
	r := result{kind: kind}

	g := gen.New(seed)
	if _, err := g.AddRelSchema("student", "id name address status",
		"Int32 Utf8String Utf8String Utf8String", "id"); err != nil {
		return r, err
	}
	if _, err := g.AddRelSchema("transcript", "studId crsCode semester grade",
		"Int32 Utf8String Utf8String Utf8String", "studId crsCode semester",
		gen.ForeignKey{Attrs: []string{"studId"}, Ref: "student", RefAttrs: []string{"id"}}); err != nil {
		return r, err
	}
	rows, err := g.Generate(map[string]int{"student": n, "transcript": 2 * n})
	if err != nil {
		return r, err
	}

	start := time.Now()
	sSchema, _ := g.Schema("student")
	students, err := table.NewWithTuples(sSchema, rows["student"], table.WithIndex(kind))
	if err != nil {
		return r, err
	}
	tSchema, _ := g.Schema("transcript")
	transcripts, err := table.NewWithTuples(tSchema, rows["transcript"], table.WithIndex(kind))
	if err != nil {
		return r, err
	}
	r.load = time.Since(start)

	if probes > n {
		probes = n
	}
	for i := 0; i < probes; i++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		id := rows["student"][i*n/probes][0]

		start = time.Now()
		if _, err := students.SelectCondition(fmt.Sprintf("id == %d", id.I64)); err != nil {
			return r, err
		}
		r.scanSelect += time.Since(start)

		start = time.Now()
		if _, err := students.SelectKey(types.NewKey(id)); err != nil {
			return r, err
		}
		r.keySelect += time.Since(start)

		// generated ids are never negative
		start = time.Now()
		if _, err := students.SelectKey(types.NewKey(types.Int32(int32(-1 - i)))); err != nil {
			return r, err
		}
		r.keyMiss += time.Since(start)
	}

	attrs1, attrs2 := []string{"studId"}, []string{"id"}
	start = time.Now()
	j, err := transcripts.Join(attrs1, attrs2, students)
	if err != nil {
		return r, err
	}
	r.join = time.Since(start)

	start = time.Now()
	ij, err := transcripts.IJoin(attrs1, attrs2, students)
	if err != nil {
		return r, err
	}
	r.ijoin = time.Since(start)

	if j.Len() != ij.Len() {
		return r, fmt.Errorf("join produced %d rows, i_join %d", j.Len(), ij.Len())
	}
	r.joinRows = j.Len()

	log.Debug().Str("index", kind.String()).Dur("load", r.load).Dur("join", r.join).Dur("ijoin", r.ijoin).Msg("run done")
	return r, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Width(14).Align(lipgloss.Right)
	cellStyle   = lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
)

func report(results []result) string {
	var b strings.Builder
	cols := []string{"index", "load", "select scan", "select key", "key miss", "join", "i_join", "join rows"}
	for _, c := range cols {
		b.WriteString(headerStyle.Render(c))
	}
	b.WriteByte('\n')
	for _, r := range results {
		cells := []string{
			r.kind.String(),
			r.load.Round(time.Microsecond).String(),
			r.scanSelect.Round(time.Microsecond).String(),
			r.keySelect.Round(time.Microsecond).String(),
			r.keyMiss.Round(time.Microsecond).String(),
			r.join.Round(time.Microsecond).String(),
			r.ijoin.Round(time.Microsecond).String(),
			fmt.Sprint(r.joinRows),
		}
		for _, c := range cells {
			b.WriteString(cellStyle.Render(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
