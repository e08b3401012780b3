// Package signing holds the signature-placement core: the pixel-to-PDF
// coordinate mapper, the PDF stamping mutator and the document state guard.
// Nothing in this package performs I/O beyond the byte slices it is given.
package signing

import "docsignflow/internal/models"

// PageSize is a page's dimensions in PDF points.
type PageSize struct {
	Width  float64
	Height float64
}

// PDFRect is a rectangle in PDF point space with the origin at the page's
// bottom-left corner. It is always derived from a Placement, never stored.
type PDFRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MapToPDFSpace converts a canvas-pixel placement into PDF point coordinates
// for a page of the given size.
//
// Horizontal and vertical scale are computed independently from the actual
// canvas and page dimensions; pages of mixed sizes within one document each
// get their own mapping. The vertical axis is flipped (canvas y grows down
// from the top, PDF y grows up from the bottom) and the scaled height is
// subtracted so the bottom edge of the drawn image lines up with the bottom
// of the captured box.
//
// Off-canvas placements are passed through unclamped; they draw partly or
// fully outside the visible page, which is harmless.
func MapToPDFSpace(p models.Placement, page PageSize) PDFRect {
	scaleX := page.Width / p.CanvasWidth
	scaleY := page.Height / p.CanvasHeight

	h := p.Height * scaleY
	return PDFRect{
		X:      p.X * scaleX,
		Y:      page.Height - p.Y*scaleY - h,
		Width:  p.Width * scaleX,
		Height: h,
	}
}
