package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// Renderer turns a document template plus a field map into HTML and PDF.
// The same renderer is invoked twice per document, once with the plaintext
// field map and once with the encrypted one.
type Renderer interface {
	RenderHTML(templateName string, fields map[string]string) (string, error)
	RenderPDF(html string) ([]byte, error)
}

type htmlRenderer struct {
	templates *template.Template
}

// New parses all *.html templates in dir. Templates are addressed by their
// base name without extension (nda, invoice, offer_letter).
func New(templateDir string) (Renderer, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &htmlRenderer{templates: tmpl}, nil
}

func (r *htmlRenderer) RenderHTML(templateName string, fields map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, templateName+".html", fields); err != nil {
		return "", fmt.Errorf("render template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

func (r *htmlRenderer) RenderPDF(html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("init pdf generator: %w", err)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
