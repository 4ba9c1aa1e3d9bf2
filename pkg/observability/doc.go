/*
Package observability provides Prometheus metrics for the inkwell preprocessor.

Metrics are registered on a caller supplied registry so that a one-shot CLI run
can write them to a node-exporter textfile, while tests can inspect them with
prometheus/testutil. A nil *Metrics is valid and records nothing.
*/
package observability
