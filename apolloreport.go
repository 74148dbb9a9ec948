// Package apolloreport provides tooling for the TCIA APOLLO-5 monthly report.
//
// Usage:
//
//	import (
//	    "github.com/tcia-tools/apollo-report/nbia"
//	    "github.com/tcia-tools/apollo-report/report"
//	)
//
//	client := nbia.NewClient(baseURL, 30*time.Second, logger)
//	if err := client.Authenticate(ctx, user, pass); err != nil { ... }
//
//	gen := report.NewGenerator(client, logger, report.WithOutputDir("reports"))
//	tbl, filename, err := gen.Generate(ctx)
//
// The generated table — or any other table — can then be narrowed with the
// filter package:
//
//	spec := filter.Defaults(tbl, []string{"Collection", "ImageCount"})
//	narrowed := filter.Apply(tbl, spec)
//
// The report pipeline and the filter engine are independent: the former
// talks to the NBIA metadata-search API and produces one denormalized study
// table per run; the latter classifies arbitrary columns as categorical,
// numeric, temporal, or free text and narrows rows with kind-appropriate
// predicates.
package apolloreport
