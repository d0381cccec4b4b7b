// Package pdf provides a Normaliser for PDF documents backed by pdfcpu.
//
// Text is decoded from the page content streams (Tj, TJ and ' operators).
// Scanned documents without a text layer are reported as extraction errors
// so that callers can route them to an OCR pipeline.
package pdf
