// Command scheduler is the batch driver for the option generator: it loads
// a catalog, resolves a student's available/mandatory/blacklisted subject
// codes, runs the enumerator through a filter pipeline, and renders the
// surviving assignments to stdout, CSV, or PDF.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schedgen/schedgen/internal/catalog"
	"github.com/schedgen/schedgen/internal/collision"
	"github.com/schedgen/schedgen/internal/filter"
	"github.com/schedgen/schedgen/internal/loader/filterfile"
	"github.com/schedgen/schedgen/internal/loader/jsonloader"
	"github.com/schedgen/schedgen/internal/loader/sqlloader"
	"github.com/schedgen/schedgen/internal/scheduling"
	"github.com/schedgen/schedgen/pkg/config"
	"github.com/schedgen/schedgen/pkg/database"
	pkgerrors "github.com/schedgen/schedgen/pkg/errors"
	"github.com/schedgen/schedgen/pkg/export"
	"github.com/schedgen/schedgen/pkg/logger"
)

type flags struct {
	files       []string
	mandatory   string
	blacklisted string
	exceptions  string

	loaderKind string
	feed       string

	subjectCountMin int
	subjectCountMax int
	creditMin       int
	creditMax       int

	exportKind string
	output     string
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:   "scheduler",
		Short: "Enumerate feasible weekly class schedules from a subject catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	root.Flags().StringArrayVar(&f.files, "files", nil, "code-set file naming available subjects (repeatable; intersected)")
	root.Flags().StringVar(&f.mandatory, "mandatory", "", "code-set file naming mandatory subjects")
	root.Flags().StringVar(&f.blacklisted, "blacklisted", "", "code-set file naming blacklisted subjects")
	root.Flags().StringVar(&f.exceptions, "exceptions", "", "collision-exception file (keyA,itemA,keyB,itemB per line)")
	root.Flags().StringVar(&f.loaderKind, "loader", "json", "catalog source: json or sql")
	root.Flags().StringVar(&f.feed, "feed", "", "path to the JSON feed file (loader=json)")
	root.Flags().IntVar(&f.subjectCountMin, "subject-count-min", -1, "minimum number of subjects in an accepted assignment")
	root.Flags().IntVar(&f.subjectCountMax, "subject-count-max", -1, "maximum number of subjects in an accepted assignment")
	root.Flags().IntVar(&f.creditMin, "credit-min", -1, "minimum total credits in an accepted assignment")
	root.Flags().IntVar(&f.creditMax, "credit-max", -1, "maximum total credits in an accepted assignment")
	root.Flags().StringVar(&f.exportKind, "export", "stdout", "render target: stdout, csv or pdf")
	root.Flags().StringVar(&f.output, "output", "", "output file path (required for csv/pdf)")
	_ = root.MarkFlagRequired("mandatory")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scheduler: %v\n", err)
		os.Exit(2)
	}
}

func run(f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	cat, err := loadCatalog(ctx, f, cfg)
	if err != nil {
		return err
	}

	mandatory, err := parseCodeFile(f.mandatory)
	if err != nil {
		return err
	}
	blacklisted, err := parseCodeFile(f.blacklisted)
	if err != nil {
		return err
	}
	available, err := resolveAvailable(f.files, mandatory)
	if err != nil {
		return err
	}

	var exceptions []collision.Exception
	if f.exceptions != "" {
		exceptions, err = parseExceptionFile(f.exceptions)
		if err != nil {
			return err
		}
	}

	pipeline, err := scheduling.Prepare(cat, scheduling.Request{
		Available:   available,
		Mandatory:   mandatory,
		Blacklisted: blacklisted,
		Exceptions:  exceptions,
	})
	if err != nil {
		logr.Sugar().Errorw("invalid request", "error", err)
		return pkgerrors.FromError(err)
	}

	filters := filter.New(
		filter.SubjectCount{Range: rangeFromFlags(f.subjectCountMin, f.subjectCountMax)},
		filter.CreditCount{Range: rangeFromFlags(f.creditMin, f.creditMax)},
	)
	stream := pipeline.Stream(filters)

	switch f.exportKind {
	case "stdout":
		return renderStdout(stream)
	case "csv", "pdf":
		if f.output == "" {
			return fmt.Errorf("--output is required for --export=%s", f.exportKind)
		}
		return renderFile(stream, pipeline, f.exportKind, f.output)
	default:
		return fmt.Errorf("unknown --export value %q", f.exportKind)
	}
}

func loadCatalog(ctx context.Context, f flags, cfg *config.Config) (catalog.Catalog, error) {
	switch f.loaderKind {
	case "json":
		if f.feed == "" {
			return catalog.Catalog{}, fmt.Errorf("--feed is required for --loader=json")
		}
		file, err := os.Open(f.feed)
		if err != nil {
			return catalog.Catalog{}, pkgerrors.NewIOError("scheduler: opening feed file", err)
		}
		defer file.Close() //nolint:errcheck
		return jsonloader.Load(file)
	case "sql":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return catalog.Catalog{}, pkgerrors.NewIOError("scheduler: connecting to database", err)
		}
		defer db.Close()
		return sqlloader.Load(ctx, db)
	default:
		return catalog.Catalog{}, fmt.Errorf("unknown --loader value %q", f.loaderKind)
	}
}

func parseCodeFile(path string) ([]catalog.Code, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.NewIOError("scheduler: opening code-set file "+path, err)
	}
	defer file.Close() //nolint:errcheck
	return filterfile.Parse(file)
}

func resolveAvailable(files []string, mandatory []catalog.Code) ([]catalog.Code, error) {
	if len(files) == 0 {
		return mandatory, nil
	}
	sets := make([][]catalog.Code, 0, len(files))
	for _, path := range files {
		codes, err := parseCodeFile(path)
		if err != nil {
			return nil, err
		}
		sets = append(sets, codes)
	}
	return filterfile.Intersect(sets), nil
}

func parseExceptionFile(path string) ([]collision.Exception, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.NewIOError("scheduler: opening exception file "+path, err)
	}
	defer file.Close() //nolint:errcheck
	return filterfile.ParseExceptions(file)
}

func rangeFromFlags(min, max int) filter.Range {
	switch {
	case min < 0 && max < 0:
		return filter.Any()
	case min >= 0 && max < 0:
		return filter.AtLeast(min)
	case min < 0 && max >= 0:
		return filter.AtMost(max)
	default:
		return filter.Inclusive(min, max)
	}
}

func renderStdout(stream *filter.Stream) error {
	count := 0
	for {
		a, ok := stream.Next()
		if !ok {
			break
		}
		count++
		fmt.Println(formatAssignment(a))
	}
	if count == 0 {
		fmt.Fprintln(os.Stderr, "scheduler: no schedules satisfy the given constraints")
	}
	return nil
}

func formatAssignment(a filter.Assignment) string {
	parts := make([]string, 0, len(a))
	for _, e := range a {
		if e.Present {
			parts = append(parts, e.Code)
		}
	}
	return strings.Join(parts, " ")
}

func renderFile(stream *filter.Stream, pipeline *scheduling.Pipeline, kind, output string) error {
	headers := make([]string, 0, len(pipeline.Groups()))
	for _, g := range pipeline.Groups() {
		headers = append(headers, g.Key)
	}

	var rows []map[string]string
	for {
		a, ok := stream.Next()
		if !ok {
			break
		}
		row := make(map[string]string, len(a))
		for _, e := range a {
			if e.Present {
				row[e.Code] = "yes"
			} else {
				row[e.Code] = ""
			}
		}
		rows = append(rows, row)
	}

	dataset := export.Dataset{Headers: headers, Rows: rows}

	var payload []byte
	var err error
	switch kind {
	case "csv":
		payload, err = export.NewCSVExporter().Render(dataset)
	case "pdf":
		payload, err = export.NewPDFExporter().Render(dataset, "schedule assignments")
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", kind, err)
	}

	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return pkgerrors.NewIOError("scheduler: writing output file", err)
	}
	return nil
}
