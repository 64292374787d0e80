// Package buffer provides the sample block handed from a capture callback to
// the analysis core, together with a pool so callbacks can run without
// allocating. Analysis functions accept raw []float64 slices; Block is the
// convenience that carries the matching sample rate alongside them.
package buffer
