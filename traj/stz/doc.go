// Package stz implements the simple trajectory format of molvis: a compressed,
// ASCII-only columnar stream of frames, easy to read and write from other
// languages while staying reasonably small on disk. Unlike plain coordinate
// trajectories, an stz frame carries enough structure to rebuild a full molvis
// Frame: element symbols, fixed-point coordinates, per-frame bonds and an
// optional periodic box.
//
// A file starts with an optional header of key=value lines and a line starting
// with "**" followed by the number of atoms per frame. Each frame is then one
// header's precision, 2 decimals by default), zero or more bond lines
// ("b i j order"), and a terminator line that is either "*" alone or "*"
// followed by the 9 lattice values of the frame's box.
//
// Compression is chosen from the last letter of the filename: 'l' is LZW,
// 'g' gzip, 'r' raw DEFLATE, and 'z' or anything else z-standard, so the
// canonical .stz extension gets the best compressor.
//
// The Reader is also a pipeline.FrameSource, so an stz file can feed a
// modifier pipeline directly. Seeking is forward-only: trajectories stream.
//
//line per atom ("El x y z", coordinates as fixed-point integers at the
package stz
