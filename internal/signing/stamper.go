package signing

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"docsignflow/internal/models"
)

// Stamper embeds a signature raster into PDF documents. All operations take
// bytes and return bytes; the caller owns persistence.
type Stamper struct {
	conf *model.Configuration
}

// NewStamper returns a Stamper using relaxed validation, which accepts the
// slightly off-spec PDFs that office tooling produces.
func NewStamper() *Stamper {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Stamper{conf: conf}
}

// Normalize validates and optimizes an uploaded PDF, returning the rewritten
// bytes and the page count. Fails with ErrMalformedPdf when the bytes are not
// a parseable PDF.
func (s *Stamper) Normalize(pdfBytes []byte) ([]byte, int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdfBytes), s.conf)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedPdf, err)
	}
	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), ctx.PageCount, nil
}

// ApplyStamp draws the signature image onto the document at every placement
// and returns the re-serialized PDF. Placements are applied in the order
// supplied; each draw is a non-destructive overlay on top of the existing
// page content.
//
// All placements are checked against the document's page count and the image
// is decoded once before any page is touched, so a failed call leaves no
// partially stamped output.
func (s *Stamper) ApplyStamp(pdfBytes []byte, placements []models.Placement, signaturePNG []byte) ([]byte, error) {
	if len(placements) == 0 {
		return nil, fmt.Errorf("%w: no stamp placements supplied", ErrValidation)
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdfBytes), s.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPdf, err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: reading page dimensions: %v", ErrMalformedPdf, err)
	}

	imgCfg, err := png.DecodeConfig(bytes.NewReader(signaturePNG))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImageFormat, err)
	}
	if imgCfg.Width <= 0 || imgCfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImageFormat)
	}

	for _, p := range placements {
		if p.PageIndex < 0 || p.PageIndex >= ctx.PageCount {
			return nil, fmt.Errorf("%w: page %d of %d-page document", ErrInvalidPageIndex, p.PageIndex, ctx.PageCount)
		}
		if p.Width <= 0 || p.Height <= 0 || p.CanvasWidth <= 0 || p.CanvasHeight <= 0 {
			return nil, fmt.Errorf("%w: placement dimensions must be positive", ErrValidation)
		}
	}

	// One AddWatermarks pass per placement: a watermark carries a single
	// Dx/Dy, so distinct positions cannot share a pass. Each pass re-parses
	// the document and re-embeds the raster, acceptable at the handful of
	// placements a signature request carries.
	out := pdfBytes
	for _, p := range placements {
		page := dims[p.PageIndex]
		rect := MapToPDFSpace(p, PageSize{Width: page.Width, Height: page.Height})

		stamped, err := s.stampOne(out, p.PageIndex+1, rect, signaturePNG, imgCfg.Width, imgCfg.Height)
		if err != nil {
			return nil, err
		}
		out = stamped
	}
	return out, nil
}

// stampOne draws the image onto a single 1-based page at rect and returns the
// rewritten document.
func (s *Stamper) stampOne(pdfBytes []byte, pageNr int, rect PDFRect, img []byte, imgW, imgH int) ([]byte, error) {
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(img), "rot:0, op:1", true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImageFormat, err)
	}

	// pdfcpu renders a raster at one point per pixel times Scale and keeps
	// the aspect ratio, so the image is fitted inside the mapped rectangle
	// and anchored at its bottom-left corner. The bottom edge therefore
	// stays exactly where the mapper put it.
	scale := rect.Width / float64(imgW)
	if alt := rect.Height / float64(imgH); alt < scale {
		scale = alt
	}
	wm.Pos = types.BottomLeft
	wm.Dx = rect.X
	wm.Dy = rect.Y
	wm.Scale = scale
	wm.ScaleAbs = true

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdfBytes), &buf, []string{strconv.Itoa(pageNr)}, wm, s.conf); err != nil {
		return nil, fmt.Errorf("%w: stamping page %d: %v", ErrSerialization, pageNr, err)
	}
	return buf.Bytes(), nil
}
