// Package genogram turns loosely structured family relationship graphs into
// valid, renderable genograms.
//
// A raw payload goes through these stages, leaves first:
//
//   - Detect: selects the current {nodes, edges} shape or the legacy
//     {members, marriages} shape
//   - Sanitize: repairs raw records into a strict common.Graph
//   - SynthesizeSiblings: replaces sibling hints with placeholder parents
//   - SynthesizeSpouses: routes person→child edges through union nodes
//   - AssignGenerations: breadth-first generation inference
//   - Layout: deterministic couple-aware row layout
//
// Legacy payloads already carry generations and go straight from FromLegacy
// to Layout.
//
// Record-level problems never surface as errors. They are collected as
// Diagnostics on the Result and the offending record is dropped.
package genogram
