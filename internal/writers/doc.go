// Package writers turns combined QC results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text summary, JSON).
//   - Stats/reduce stay domain-only; pipeline stays orchestration-only.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
