// Package pdfdoc implements a compact PDF reader sufficient for page-level
// comparison: page counting, media-box geometry, and positioned text
// extraction from content streams.
//
// The reader understands the PDF object model (dictionaries, arrays, names,
// strings, streams, indirect references), classic cross-reference tables,
// cross-reference streams, object streams, and Flate/ASCIIHex stream
// filters. It deliberately does not parse font programs: string bytes are
// mapped through a Latin-1 style fallback, which is sufficient for substring
// search and approximate rendering of the documents this module compares.
//
// # Usage
//
//	doc, err := pdfdoc.Open(data)
//	if err != nil {
//	    // errors.Is(err, pdfdoc.ErrParse) for malformed input
//	}
//	n := doc.PageCount()
//	page, _ := doc.Page(0)
//	fragments, _ := page.TextFragments()
//
// All errors caused by malformed input wrap [ErrParse].
package pdfdoc
