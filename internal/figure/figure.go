// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package figure locates a representative figure in a paper PDF and renders
// it as a thumbnail bitmap. Geometry access and rasterization go through
// the Document interface so the locator logic runs against fakes in tests
// and an external helper binary in production.
package figure

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Rect is an axis-aligned rectangle in PDF points, origin top-left.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Intersect clamps r to o.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X0: math.Max(r.X0, o.X0),
		Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
	}
}

// Block is one text block with its bounding box.
type Block struct {
	Rect
	Text string `json:"text"`
}

// Image is one placed image: its placement box on the page plus the
// intrinsic pixel dimensions of the embedded bitmap.
type Image struct {
	Rect
	PixelWidth  int `json:"pixel_width"`
	PixelHeight int `json:"pixel_height"`
}

// Document exposes the PDF geometry and rasterization the locator needs.
// Pages are zero-based.
type Document interface {
	NumPages() int
	PageBounds(page int) Rect
	TextBlocks(page int) ([]Block, error)
	Images(page int) ([]Image, error)
	Drawings(page int) ([]Rect, error)

	// RenderRegion rasterizes the clipped region scaled to the given pixel
	// width, returning the image bytes and their format extension.
	RenderRegion(page int, clip Rect, width int) ([]byte, string, error)

	// RenderPage rasterizes the whole page scaled to the given pixel width.
	RenderPage(page int, width int) ([]byte, string, error)
}

const (
	// captionBand is how far above a figure caption the content search
	// extends, in points.
	captionBand = 500.0

	// bandSlack lets content hang slightly below the caption top.
	bandSlack = 10.0

	// regionPadding widens the union region on the left, top, and right.
	regionPadding = 5.0

	// minImageSide and the aspect bounds filter out logos, rules, and
	// full-page scans when scoring placed images.
	minImageSide = 256.0
	minAspect    = 0.4
	maxAspect    = 2.5

	defaultWidth = 640
)

// Locator finds and renders the thumbnail figure. Strategies run in
// fallback order: union of content above the figure caption, placed image
// nearest the caption, largest well-shaped placed image, and finally the
// page with the most embedded image area.
type Locator struct {
	Doc Document

	// FigureNumber is the 1-based figure to look for (default 1).
	FigureNumber int

	// Width is the rasterization target width in pixels (default 640).
	Width int
}

// Thumbnail renders the figure, reporting which strategy produced it.
func (l *Locator) Thumbnail() ([]byte, string, error) {
	if data, ext, ok := l.unionByCaption(); ok {
		return data, ext, nil
	}
	if data, ext, ok := l.nearestCaptionImage(); ok {
		return data, ext, nil
	}
	if data, ext, ok := l.largestImageRegion(); ok {
		return data, ext, nil
	}
	if data, ext, ok := l.bestPage(); ok {
		return data, ext, nil
	}
	return nil, "", fmt.Errorf("no renderable figure found")
}

func (l *Locator) figureNumber() int {
	if l.FigureNumber > 0 {
		return l.FigureNumber
	}
	return 1
}

func (l *Locator) width() int {
	if l.Width > 0 {
		return l.Width
	}
	return defaultWidth
}

// unionByCaption finds the first page whose text contains a strict figure
// caption ("Figure 1." or "Fig. 1:") and renders the union of drawings and
// placed images in the band directly above it.
func (l *Locator) unionByCaption() ([]byte, string, bool) {
	patt := regexp.MustCompile(fmt.Sprintf(`(?i)^(figure|fig\.?)\s*%d[:.]`, l.figureNumber()))

	for page := 0; page < l.Doc.NumPages(); page++ {
		blocks, err := l.Doc.TextBlocks(page)
		if err != nil {
			continue
		}
		sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Y0 < blocks[j].Y0 })

		var caption *Block
		for i := range blocks {
			if patt.MatchString(strings.TrimSpace(blocks[i].Text)) {
				caption = &blocks[i]
				break
			}
		}
		if caption == nil {
			continue
		}

		bottom := caption.Y0
		top := math.Max(0, bottom-captionBand)

		var rects []Rect
		if drawings, err := l.Doc.Drawings(page); err == nil {
			for _, r := range drawings {
				if r.Y1 <= bottom+bandSlack && r.Y0 >= top && (r.Width() > 5 || r.Height() > 5) {
					rects = append(rects, r)
				}
			}
		}
		if images, err := l.Doc.Images(page); err == nil {
			for _, im := range images {
				if im.Y1 <= bottom+bandSlack && im.Y0 >= top {
					rects = append(rects, im.Rect)
				}
			}
		}
		if len(rects) == 0 {
			continue
		}

		region := rects[0]
		for _, r := range rects[1:] {
			region = region.Union(r)
		}
		region.X0 -= regionPadding
		region.Y0 -= regionPadding
		region.X1 += regionPadding
		region.Y1 = bottom + 2
		region = region.Intersect(l.Doc.PageBounds(page))

		data, ext, err := l.Doc.RenderRegion(page, region, l.width())
		if err != nil {
			continue
		}
		return data, ext, true
	}
	return nil, "", false
}

// nearestCaptionImage scores well-shaped placed images by horizontal
// overlap with and vertical distance to any loose caption mention, and
// renders the best on the first page with candidates.
func (l *Locator) nearestCaptionImage() ([]byte, string, bool) {
	patts := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`(?i)figure\s*%d\b`, l.figureNumber())),
		regexp.MustCompile(fmt.Sprintf(`(?i)fig\.\s*%d\b`, l.figureNumber())),
	}

	for page := 0; page < l.Doc.NumPages(); page++ {
		blocks, err := l.Doc.TextBlocks(page)
		if err != nil {
			continue
		}
		var captions []Rect
		for _, b := range blocks {
			for _, p := range patts {
				if p.MatchString(b.Text) {
					captions = append(captions, b.Rect)
					break
				}
			}
		}
		if len(captions) == 0 {
			continue
		}

		images, err := l.Doc.Images(page)
		if err != nil {
			continue
		}

		bestScore := math.Inf(-1)
		var best *Rect
		for _, im := range images {
			if !wellShaped(im.Rect) {
				continue
			}
			r := im.Rect
			for _, c := range captions {
				overlapX := math.Max(0, math.Min(r.X1, c.X1)-math.Max(r.X0, c.X0))
				baseW := math.Min(orOne(c.Width()), orOne(r.Width()))
				dy := math.Min(math.Abs(r.Y0-c.Y1), math.Abs(c.Y0-r.Y1))
				score := (overlapX/baseW)*1000 - dy
				if score > bestScore {
					bestScore = score
					rect := r
					best = &rect
				}
			}
		}
		if best == nil {
			continue
		}

		data, ext, err := l.Doc.RenderRegion(page, *best, l.width())
		if err != nil {
			continue
		}
		return data, ext, true
	}
	return nil, "", false
}

// largestImageRegion renders the largest well-shaped placed image in the
// whole document.
func (l *Locator) largestImageRegion() ([]byte, string, bool) {
	bestArea := 0.0
	bestPage := -1
	var best Rect

	for page := 0; page < l.Doc.NumPages(); page++ {
		images, err := l.Doc.Images(page)
		if err != nil {
			continue
		}
		for _, im := range images {
			if !wellShaped(im.Rect) {
				continue
			}
			if area := im.Area(); area > bestArea {
				bestArea = area
				bestPage = page
				best = im.Rect
			}
		}
	}
	if bestPage < 0 {
		return nil, "", false
	}

	data, ext, err := l.Doc.RenderRegion(bestPage, best, l.width())
	if err != nil {
		return nil, "", false
	}
	return data, ext, true
}

// bestPage renders the page whose embedded images carry the most intrinsic
// pixel area. With no images anywhere this is page one.
func (l *Locator) bestPage() ([]byte, string, bool) {
	if l.Doc.NumPages() == 0 {
		return nil, "", false
	}

	bestTotal := -1
	bestIndex := 0
	for page := 0; page < l.Doc.NumPages(); page++ {
		images, err := l.Doc.Images(page)
		if err != nil {
			continue
		}
		total := 0
		for _, im := range images {
			total += im.PixelWidth * im.PixelHeight
		}
		if total > bestTotal {
			bestTotal = total
			bestIndex = page
		}
	}

	data, ext, err := l.Doc.RenderPage(bestIndex, l.width())
	if err != nil {
		return nil, "", false
	}
	return data, ext, true
}

func wellShaped(r Rect) bool {
	w, h := r.Width(), r.Height()
	if w < minImageSide || h < minImageSide {
		return false
	}
	if h == 0 {
		return false
	}
	ar := w / h
	return ar >= minAspect && ar <= maxAspect
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
