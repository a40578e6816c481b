// Package extraction pulls structured corporate-entity records out of
// unstructured SEC filing text using heuristic pattern matching.
//
// The package supports:
//   - Section location: bounding the relevant window of a large filing
//     between ordered start and end markers
//   - Three pattern extractors: subsidiaries (Exhibit 21), directors and
//     officers, and beneficial owners (DEF 14A)
//   - Insertion-ordered deduplication keyed on the lowercased entity name
//   - An optional LLM-based extractor as an independent alternative to
//     the heuristic pipeline
//
// # Architecture
//
// The main components are:
//   - Locator: finds a bounded text window between marker patterns
//   - SubsidiaryExtractor, DirectorExtractor, OwnerExtractor: ordered
//     regex pattern sets applied to a located window
//   - Pipeline: runs the three locate+extract passes over a 10-K and a
//     DEF 14A and assembles the Result, applying the subsidiary fallback
//
// # Usage
//
// Build a pipeline with default markers and run it over filing text:
//
//	pipeline, err := extraction.NewPipeline(extraction.DefaultConfig(), logger)
//	result, _ := pipeline.Extract(ctx, tenKText, def14aText)
//	fmt.Printf("%d subsidiaries, %d directors, %d owners\n",
//	    len(result.Subsidiaries), len(result.Directors), len(result.Owners))
//
// Extraction never fails for malformed or missing document text; absent
// sections yield empty (non-nil) record slices.
//
// # Marker Configuration
//
// The section marker sets and title keywords are constant configuration
// exposed through DefaultSectionMarkers and DefaultTitleKeywords. They
// are data, not behavior: extractors are pure functions of their input
// text and are safe to share across concurrent requests.
package extraction
