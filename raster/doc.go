// Package raster turns document bytes into page images for visual
// comparison.
//
// The [Rasterizer] interface decouples comparison from any particular
// rendering backend. The built-in [PDF] rasterizer parses documents with
// the pdfdoc package and paints their text layer onto white canvases;
// it is deterministic, dependency-free, and good enough to detect
// content changes between revisions of text-based documents. Callers
// with a full renderer at hand (a poppler or mupdf binding, a print
// pipeline) plug it in through the same interface.
//
// [Static] serves pre-rendered pages from memory, which is how the
// comparison tests drive the engine with hand-built images.
package raster
