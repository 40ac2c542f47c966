// Package dataprocessing turns the yearly PRF accident exports into a clean
// Dataset and the dashboard aggregates computed from it.
//
// # Architecture
//
// The package is organized into four groups:
//
// 1. Readers: TabularReader implementations (csv, dataframe, xlsx) selected by name
// 2. Loader: parses files concurrently, stacks them and infers column kinds
// 3. Cleaning: YearFilter, Cleaner and AddInjuryTotal mutate the Dataset in place
// 4. Analysis: Aggregator, Histogram, Describe and Summarizer read it
//
// # Usage
//
//	reader := dataprocessing.NewTabularReader("csv", dataprocessing.DefaultReaderOptions(), logger)
//	ds, loadReport, err := dataprocessing.NewLoader(reader, 2, logger).Load(ctx, files)
//	if err != nil {
//	    return err
//	}
//	filterReport, err := dataprocessing.NewYearFilter(domain.ColDate, []int{2024, 2025}, logger).Apply(ctx, ds)
//	cleaningReport, err := dataprocessing.NewCleaner(logger).Clean(ctx, ds)
//	_, err = dataprocessing.AddInjuryTotal(ctx, ds, logger)
//
//	artifacts := dataprocessing.NewAggregator(4000, 42, logger).Build(ctx, ds)
//
// # Data Flow
//
//	CSV files → Readers → Loader → YearFilter → Cleaner → AddInjuryTotal → snapshot
//	snapshot → YearFilter → Aggregator → JSON payloads
//	                      → Describe → statistics document
//
// # Error Handling
//
// Reader failures are PARSING AppErrors; the Loader logs them and keeps
// going unless no file could be parsed. Write failures are STORAGE AppErrors.
package dataprocessing
