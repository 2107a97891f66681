// Package review contains the invoice review domain: invoice records, the
// anomalies attached to them, the filename extraction heuristic, and the
// invoice identifier scheme.
package review
