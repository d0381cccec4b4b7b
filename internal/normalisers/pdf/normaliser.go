package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/clean"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CauseNeedsOCR is the extraction error cause for image-only PDFs.
const CauseNeedsOCR = "PDF has no extractable text — likely a scanned image requiring OCR"

const titleMaxLength = 200

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text layer of a PDF.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw.Content), model.NewDefaultConfiguration())
	if err != nil {
		return nil, &domain.ExtractionError{Origin: raw.Origin, Cause: "invalid PDF", Err: err}
	}

	pages := make([]string, 0, pctx.PageCount)
	totalChars := 0
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := pageText(pctx, pageNr)
		if text == "" {
			continue
		}
		totalChars += len([]rune(text))
		pages = append(pages, text)
	}

	content := strings.Join(pages, "\n\n")
	q := Quality{
		PageCount:       pctx.PageCount,
		PrintableRatio:  printableRatio(content),
		HasImageStreams: hasImageStreams(pctx),
	}
	if pctx.PageCount > 0 {
		q.CharsPerPage = float64(totalChars) / float64(pctx.PageCount)
	}
	logger.Debug("pdf %s: %s", raw.Origin, q)
	if strings.TrimSpace(content) == "" || q.NeedsOCR() {
		return nil, &domain.ExtractionError{Origin: raw.Origin, Cause: CauseNeedsOCR}
	}

	title := clean.FirstLine(content, titleMaxLength)
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		title = t
	}

	doc := domain.Document{
		Origin:   raw.Origin,
		Title:    title,
		Content:  content,
		Metadata: clean.CopyMetadata(raw.Metadata),
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	doc.Metadata["pages"] = pctx.PageCount

	return &driven.NormaliseResult{Document: doc}, nil
}

// pageText extracts the text of one page via its content stream.
func pageText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return clean.Lines(TextFromStream(data))
}

// hasImageStreams reports whether the document holds image XObjects.
func hasImageStreams(pctx *model.Context) bool {
	if pctx.Optimize != nil {
		for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(pctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range pctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}
