// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package figure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// executor abstracts helper invocation for testing.
type executor interface {
	Run(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) Run(name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w (%s)", name, strings.Join(args, " "), err,
			strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// helperPage mirrors one page of the helper's geometry output.
type helperPage struct {
	Bounds   Rect    `json:"bounds"`
	Blocks   []Block `json:"blocks"`
	Images   []Image `json:"images"`
	Drawings []Rect  `json:"drawings"`
}

type helperGeometry struct {
	Pages []helperPage `json:"pages"`
}

// HelperDocument implements Document by shelling out to an external PDF
// helper binary. The helper answers "geometry <pdf>" with a JSON dump of
// page bounds, text blocks, image placements, and vector drawings, and
// "render <pdf> --page N --width W [--clip x0,y0,x1,y1]" with PNG bytes
// on stdout.
type HelperDocument struct {
	command string
	pdfPath string
	geo     helperGeometry
	exec    executor
}

// OpenHelper loads the geometry of the PDF at pdfPath through the helper
// command.
func OpenHelper(command, pdfPath string) (*HelperDocument, error) {
	return openHelper(command, pdfPath, &osExecutor{})
}

func openHelper(command, pdfPath string, ex executor) (*HelperDocument, error) {
	out, err := ex.Run(command, "geometry", pdfPath)
	if err != nil {
		return nil, fmt.Errorf("reading PDF geometry: %w", err)
	}

	var geo helperGeometry
	if err := json.Unmarshal(out, &geo); err != nil {
		return nil, fmt.Errorf("parsing helper geometry output: %w", err)
	}
	return &HelperDocument{command: command, pdfPath: pdfPath, geo: geo, exec: ex}, nil
}

func (d *HelperDocument) NumPages() int { return len(d.geo.Pages) }

func (d *HelperDocument) PageBounds(page int) Rect {
	if page < 0 || page >= len(d.geo.Pages) {
		return Rect{}
	}
	return d.geo.Pages[page].Bounds
}

func (d *HelperDocument) TextBlocks(page int) ([]Block, error) {
	if page < 0 || page >= len(d.geo.Pages) {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	return d.geo.Pages[page].Blocks, nil
}

func (d *HelperDocument) Images(page int) ([]Image, error) {
	if page < 0 || page >= len(d.geo.Pages) {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	return d.geo.Pages[page].Images, nil
}

func (d *HelperDocument) Drawings(page int) ([]Rect, error) {
	if page < 0 || page >= len(d.geo.Pages) {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	return d.geo.Pages[page].Drawings, nil
}

func (d *HelperDocument) RenderRegion(page int, clip Rect, width int) ([]byte, string, error) {
	clipArg := fmt.Sprintf("%s,%s,%s,%s",
		formatCoord(clip.X0), formatCoord(clip.Y0), formatCoord(clip.X1), formatCoord(clip.Y1))
	out, err := d.exec.Run(d.command, "render", d.pdfPath,
		"--page", strconv.Itoa(page), "--width", strconv.Itoa(width), "--clip", clipArg)
	if err != nil {
		return nil, "", fmt.Errorf("rendering region: %w", err)
	}
	return out, "png", nil
}

func (d *HelperDocument) RenderPage(page int, width int) ([]byte, string, error) {
	out, err := d.exec.Run(d.command, "render", d.pdfPath,
		"--page", strconv.Itoa(page), "--width", strconv.Itoa(width))
	if err != nil {
		return nil, "", fmt.Errorf("rendering page: %w", err)
	}
	return out, "png", nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
