// =============================================================================
// AKT Filler - DOCX Container
// =============================================================================
//
// A .docx file is a ZIP archive of XML parts. Only word/document.xml is ever
// edited; every other part is carried through byte-for-byte, in its original
// order, when the document is written back.
//
// DOCUMENT.XML STRUCTURE (the parts this package touches):
//
//   <w:document>
//     <w:body>
//       <w:p>                       <!-- paragraph -->
//         <w:pPr>...</w:pPr>        <!-- paragraph properties -->
//         <w:r>                     <!-- run -->
//           <w:rPr>...</w:rPr>      <!-- run properties -->
//           <w:t>text</w:t>
//         </w:r>
//       </w:p>
//       <w:tbl>
//         <w:tr><w:tc><w:p>...</w:p></w:tc></w:tr>
//       </w:tbl>
//     </w:body>
//   </w:document>
//
// The XML tree is held with github.com/beevik/etree, which keeps namespace
// prefixes, attribute order and unknown elements intact on write.
//
// =============================================================================

package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
)

// MIMEType is the content type of a .docx file.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// WordNamespace is the WordprocessingML main namespace.
const WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const documentPart = "word/document.xml"

// ErrInvalidDocument is returned when the input is not a usable .docx file.
var ErrInvalidDocument = errors.New("invalid docx document")

// part is one ZIP entry carried through unchanged.
type part struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Document is an in-memory .docx file.
// A Document is owned by a single request and is not safe for concurrent use.
type Document struct {
	parts  []part
	xml    *etree.Document
	body   *etree.Element
	prefix string
}

// Open parses a .docx file held in memory.
//
// RETURNS:
//   - The parsed Document.
//   - An error wrapping ErrInvalidDocument if the archive or its main part
//     cannot be read.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	d := &Document{}
	var main []byte

	for _, f := range zr.File {
		b, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidDocument, f.Name, err)
		}
		d.parts = append(d.parts, part{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     b,
		})
		if f.Name == documentPart {
			main = b
		}
	}

	if main == nil {
		return nil, fmt.Errorf("%w: %s not found", ErrInvalidDocument, documentPart)
	}

	d.xml = etree.NewDocument()
	if err := d.xml.ReadFromBytes(main); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidDocument, documentPart, err)
	}

	root := d.xml.Root()
	if root == nil || !isW(root, "document") {
		return nil, fmt.Errorf("%w: %s has no w:document root", ErrInvalidDocument, documentPart)
	}

	d.body = firstChild(root, "body")
	if d.body == nil {
		return nil, fmt.Errorf("%w: %s has no w:body", ErrInvalidDocument, documentPart)
	}
	d.prefix = root.Space

	return d, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Bytes serializes the document back into a .docx archive.
func (d *Document) Bytes() ([]byte, error) {
	main, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", documentPart, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, p := range d.parts {
		data := p.data
		if p.name == documentPart {
			data = main
		}

		method := p.method
		if method != zip.Store {
			method = zip.Deflate
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   method,
			Modified: p.modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

// =============================================================================
// ELEMENT HELPERS
// =============================================================================

// isW reports whether e is the WordprocessingML element with the given name.
func isW(e *etree.Element, local string) bool {
	return e.Tag == local && e.NamespaceURI() == WordNamespace
}

// firstChild returns the first w:<local> child of e, or nil.
func firstChild(e *etree.Element, local string) *etree.Element {
	for _, c := range e.ChildElements() {
		if isW(c, local) {
			return c
		}
	}
	return nil
}

// children returns every w:<local> child of e, in order.
func children(e *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if isW(c, local) {
			out = append(out, c)
		}
	}
	return out
}

// tag qualifies a local name with the document's WordprocessingML prefix.
func (d *Document) tag(local string) string {
	if d.prefix == "" {
		return local
	}
	return d.prefix + ":" + local
}
