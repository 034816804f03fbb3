// Package output provides deterministic encoding and the small markdown
// primitives shared by every report.
//
// # Ordering Contract
//
// Every ranked list produced by the engine carries the repository-relative
// path as its final sort key, so identical inputs yield byte-identical output:
//
//   - importance rankings: importance DESC → path ASC
//   - critical path: score DESC → path ASC
//   - entrypoints: blended score DESC → path ASC
//   - churn tables: sort key DESC → path ASC
//   - clusters: size DESC → average coupling DESC → first member ASC
//
// # Encoding Rules
//
// DeterministicEncode and EncodeYAML normalise values before encoding:
//
//  1. Object keys are sorted alphabetically
//  2. Floats are rounded to at most 6 decimal places
//  3. Nil and empty values are omitted
//
// # Markdown
//
// Table pads columns by rune width, not byte length, because heatmap bars
// and file-pair arrows are multi-byte. Wrapper tags (<tree>, <file path="…">)
// delimit sections for downstream consumers.
package output
