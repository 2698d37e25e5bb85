package diagnostics

import (
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/porterlens/internal/manifest"
)

// ToHCL converts diagnostics into hcl.Diagnostics so they can be printed
// with the hcl text writer, snippet and all. HCL ranges are 1-based and
// carry byte offsets.
func ToHCL(filename string, doc *manifest.Document, diags []Diagnostic) hcl.Diagnostics {
	idx := doc.Index()
	pos := func(p manifest.Position) hcl.Pos {
		return hcl.Pos{Line: p.Line + 1, Column: p.Column + 1, Byte: idx.OffsetOf(p)}
	}

	out := make(hcl.Diagnostics, 0, len(diags))
	for _, d := range diags {
		severity := hcl.DiagError
		if d.Severity != SeverityError {
			severity = hcl.DiagWarning
		}
		subject := hcl.Range{Filename: filename, Start: pos(d.Range.Start), End: pos(d.Range.End)}
		out = append(out, &hcl.Diagnostic{
			Severity: severity,
			Summary:  d.Message,
			Detail:   string(d.Kind),
			Subject:  &subject,
		})
	}
	return out
}

// WriteText renders diags for filename in the hcl diagnostic text format.
func WriteText(w io.Writer, filename string, doc *manifest.Document, diags []Diagnostic, width uint, color bool) error {
	files := map[string]*hcl.File{filename: {Bytes: []byte(doc.Index().Text())}}
	writer := hcl.NewDiagnosticTextWriter(w, files, width, color)
	return writer.WriteDiagnostics(ToHCL(filename, doc, diags))
}
