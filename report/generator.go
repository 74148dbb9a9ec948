package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tcia-tools/apollo-report/nbia"
	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// REPORT GENERATOR — APOLLO-5 monthly report pipeline
// ============================================================================
// One Generate call runs the full pipeline: resolve collections, pull study
// inventories, one advanced QC search for site and series membership, one
// batched series-metadata call, then join, derive, reorder, and export.
// External fetch failures abort the run; missing data inside joins becomes
// null and never aborts.
// ============================================================================

// collectionMarker selects the collections the monthly report covers.
const collectionMarker = "APOLLO-5"

// canonicalColumns is the fixed output schema, in order.
var canonicalColumns = []string{
	"PatientID",
	"Collection",
	"Site",
	"LongitudinalTemporalEventType",
	"LongitudinalTemporalOffsetFromEvent",
	"StudyDate",
	"StudyInstanceUID",
	"StudyDescription",
	"SeriesCount",
	"ImageCount",
	"PatientAge",
	"PatientAge_Numeric",
	"PatientSex",
	"EthnicGroup",
}

// Client is the slice of the NBIA API the generator consumes.
type Client interface {
	Collections(ctx context.Context) ([]nbia.Collection, error)
	Studies(ctx context.Context, collection string) ([]nbia.Study, error)
	AdvancedQCSearch(ctx context.Context, criteria []nbia.Criterion) (*table.Table, error)
	SeriesMetadata(ctx context.Context, seriesUIDs []string) (*table.Table, error)
}

// Generator produces the monthly report.
type Generator struct {
	client   Client
	log      *zap.Logger
	outDir   string
	progress func(stage string)
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithOutputDir sets where the exported CSV lands. Default: current directory.
func WithOutputDir(dir string) Option {
	return func(g *Generator) { g.outDir = dir }
}

// WithProgress installs a callback fired once per pipeline stage. The report
// itself is only returned on completion; this is an opaque in-progress signal.
func WithProgress(fn func(stage string)) Option {
	return func(g *Generator) { g.progress = fn }
}

// WithClock overrides the timestamp source used for the export filename.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator builds a Generator around an authenticated client.
func NewGenerator(client Client, log *zap.Logger, opts ...Option) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Generator{
		client:   client,
		log:      log,
		outDir:   ".",
		progress: func(string) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the pipeline and returns the report table and the name of
// the exported CSV file.
func (g *Generator) Generate(ctx context.Context) (*table.Table, string, error) {
	log := g.log.With(zap.String("run_id", uuid.NewString()))
	start := g.now()

	// 1. Resolve target collections.
	g.progress("resolving collections")
	catalog, err := g.client.Collections(ctx)
	if err != nil {
		return nil, "", err
	}
	var collections []string
	for _, c := range catalog {
		if strings.Contains(c.Collection, collectionMarker) {
			collections = append(collections, c.Collection)
		}
	}
	log.Info("collections selected",
		zap.Int("catalog", len(catalog)),
		zap.Int("selected", len(collections)),
	)

	// 2. Accumulate study inventories in fetch order.
	g.progress("fetching study inventories")
	studies := table.New()
	for _, collection := range collections {
		inventory, err := g.client.Studies(ctx, collection)
		if err != nil {
			return nil, "", err
		}
		studies = studies.Concat(studyTable(inventory))
		log.Info("study inventory fetched",
			zap.String("collection", collection),
			zap.Int("studies", len(inventory)),
		)
	}

	if studies.Len() == 0 {
		// Empty filtered set yields an empty report, not an error.
		log.Warn("no studies found, exporting empty report")
		empty := studies.Reorder(canonicalColumns...)
		filename, err := g.export(empty)
		return empty, filename, err
	}

	// 3. One advanced search for every distinct patient.
	g.progress("searching site and series membership")
	patientIDs := studies.DistinctStrings("PatientID")
	criteria := []nbia.Criterion{{Field: "patientID", Value: strings.Join(patientIDs, ",")}}
	search, err := g.client.AdvancedQCSearch(ctx, criteria)
	if err != nil {
		return nil, "", err
	}

	// 4. Canonical join key name.
	search = search.Rename("study", "StudyInstanceUID")

	// 5. Batched series metadata lookup.
	g.progress("fetching series metadata")
	seriesInfo, err := g.client.SeriesMetadata(ctx, search.NonNullStrings("series"))
	if err != nil {
		return nil, "", err
	}

	// 6. Per-study image counts.
	imageCounts := seriesInfo.
		GroupBySum("Study UID", "Number of images").
		Rename("Number of images", "ImageCount").
		Rename("Study UID", "StudyInstanceUID")

	// 7. Site associations, deduplicated so the join cannot fan out.
	sites := search.
		Select("StudyInstanceUID", "collectionSite").
		DropDuplicates("StudyInstanceUID", "collectionSite")

	// 8. Left joins: unmatched studies keep null site and image count.
	g.progress("joining")
	rpt := studies.
		LeftJoin(sites, "StudyInstanceUID").
		LeftJoin(imageCounts, "StudyInstanceUID")

	// 9–10. Drop superseded raw columns, split collectionSite.
	rpt = rpt.
		Drop("Collection", "AdmittingDiagnosesDescription", "PatientName").
		SplitColumn("collectionSite", "//", "Collection", "Site")

	// 11. Derived numeric age.
	joined := rpt
	rpt = joined.AddColumn("PatientAge_Numeric", func(i int) table.Value {
		return ageNumeric(joined.Cell(i, "PatientAge"))
	})

	// 12. Canonical column order.
	rpt = rpt.Reorder(canonicalColumns...)

	// 13. Export.
	g.progress("exporting")
	filename, err := g.export(rpt)
	if err != nil {
		return nil, "", err
	}

	log.Info("report generated",
		zap.Int("rows", rpt.Len()),
		zap.String("file", filename),
		zap.Duration("elapsed", g.now().Sub(start)),
	)
	return rpt, filename, nil
}

// studyTable converts a study inventory into the unified studies table.
func studyTable(studies []nbia.Study) *table.Table {
	tbl := table.New(
		"PatientID",
		"StudyInstanceUID",
		"StudyDate",
		"StudyDescription",
		"PatientAge",
		"PatientSex",
		"EthnicGroup",
		"LongitudinalTemporalEventType",
		"LongitudinalTemporalOffsetFromEvent",
		"SeriesCount",
		"AdmittingDiagnosesDescription",
		"PatientName",
		"Collection",
	)
	for _, s := range studies {
		tbl.AppendRow(
			optStr(s.PatientID),
			optStr(s.StudyInstanceUID),
			optStr(s.StudyDate),
			optStr(s.StudyDescription),
			optStr(s.PatientAge),
			optStr(s.PatientSex),
			optStr(s.EthnicGroup),
			optStr(s.LongitudinalTemporalEventType),
			optNum(s.LongitudinalTemporalOffsetFromEvent),
			table.Num(float64(s.SeriesCount)),
			optStr(s.AdmittingDiagnosesDescription),
			optStr(s.PatientName),
			optStr(s.Collection),
		)
	}
	return tbl
}

func optStr(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	return table.Str(s)
}

func optNum(n *float64) table.Value {
	if n == nil {
		return table.Null()
	}
	return table.Num(*n)
}

// export writes the CSV and returns its bare filename.
func (g *Generator) export(tbl *table.Table) (string, error) {
	filename := fmt.Sprintf("apollo5-monthly-report_%s.csv", g.now().Format("2006-01-02_15-04"))
	if err := ExportCSV(tbl, g.outDir, filename); err != nil {
		return "", err
	}
	return filename, nil
}
