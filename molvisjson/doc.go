// Package molvisjson serializes molvis frames and pipeline results to JSON,
// for exchange with external programs, typically renderers or scripting
// front-ends driving a pipeline over a pipe. One JSON object per line: the
// other side can stream with any line-oriented reader.
//
// A frame is sent as its blocks, each block as its typed columns, plus the 9
// lattice values of the box if there is one. A pipeline result carries, next
// to the frame, the non-destructive visibility mask and the guide lines that
// a slice modifier published, so a renderer can honor them without knowing
// anything about modifiers.
package molvisjson
