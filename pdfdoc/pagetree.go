package pdfdoc

import "fmt"

// Page is one page of a document with its inherited attributes resolved.
type Page struct {
	doc       *Document
	dict      Dict
	mediaBox  [4]float64
	resources Dict
}

// Letter-sized default, used when a malformed tree omits MediaBox entirely.
var defaultMediaBox = [4]float64{0, 0, 612, 792}

// maxPageTreeDepth bounds recursion so cyclic page trees terminate.
const maxPageTreeDepth = 64

// loadPages walks the page tree from the catalog and flattens it into an
// ordered page list, carrying inherited MediaBox and Resources down.
func (d *Document) loadPages() error {
	root := d.xref.trailer.Get("Root")
	if root == nil {
		return fmt.Errorf("trailer missing /Root")
	}
	catalog, err := d.resolveDict(root)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	pagesObj := catalog.Get("Pages")
	if pagesObj == nil {
		return fmt.Errorf("catalog missing /Pages")
	}
	rootNode, err := d.resolveDict(pagesObj)
	if err != nil {
		return fmt.Errorf("page tree root: %w", err)
	}

	if err := d.walkPageNode(rootNode, defaultMediaBox, nil, 0); err != nil {
		return err
	}
	if len(d.pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}

func (d *Document) walkPageNode(node Dict, mediaBox [4]float64, resources Dict, depth int) error {
	if depth > maxPageTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels (cycle?)", maxPageTreeDepth)
	}

	if mb, ok := d.mediaBoxOf(node); ok {
		mediaBox = mb
	}
	if res, err := d.resolveDict(node.Get("Resources")); err == nil && res != nil {
		resources = res
	}

	nodeType, _ := node.GetName("Type")
	kidsObj := node.Get("Kids")

	if nodeType == "Page" || (nodeType == "" && kidsObj == nil) {
		d.pages = append(d.pages, &Page{
			doc:       d,
			dict:      node,
			mediaBox:  mediaBox,
			resources: resources,
		})
		return nil
	}

	kidsResolved, err := d.resolve(kidsObj)
	if err != nil {
		return fmt.Errorf("resolving Kids: %w", err)
	}
	kids, ok := kidsResolved.(Array)
	if !ok {
		return fmt.Errorf("page tree node has no usable Kids (%T)", kidsResolved)
	}

	for _, kid := range kids {
		kidDict, err := d.resolveDict(kid)
		if err != nil {
			return fmt.Errorf("page tree kid: %w", err)
		}
		if err := d.walkPageNode(kidDict, mediaBox, resources, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// mediaBoxOf reads a node's MediaBox as [x1 y1 x2 y2].
func (d *Document) mediaBoxOf(node Dict) ([4]float64, bool) {
	resolved, err := d.resolve(node.Get("MediaBox"))
	if err != nil {
		return [4]float64{}, false
	}
	arr, ok := resolved.(Array)
	if !ok || len(arr) != 4 {
		return [4]float64{}, false
	}
	var mb [4]float64
	for i, v := range arr {
		f, ok := toFloat(v)
		if !ok {
			return [4]float64{}, false
		}
		mb[i] = f
	}
	return mb, true
}

// Width returns the page width in PDF points.
func (p *Page) Width() float64 {
	return p.mediaBox[2] - p.mediaBox[0]
}

// Height returns the page height in PDF points.
func (p *Page) Height() float64 {
	return p.mediaBox[3] - p.mediaBox[1]
}
