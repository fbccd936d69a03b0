package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form is a multipart/form-data body. Parts are written in the order they
// were added.
type Form struct {
	parts []part
}

type part struct {
	name        string
	fileName    string
	contentType string
	data        []byte
	isFile      bool
}

// NewForm returns an empty form.
func NewForm() *Form { return &Form{} }

// File adds a file part. An empty contentType is sent as
// application/octet-stream.
func (f *Form) File(name, fileName, contentType string, data []byte) *Form {
	f.parts = append(f.parts, part{name: name, fileName: fileName, contentType: contentType, data: data, isFile: true})
	return f
}

// Set adds a plain field.
func (f *Form) Set(name, value string) *Form {
	f.parts = append(f.parts, part{name: name, data: []byte(value)})
	return f
}

// Value returns the first plain field called name.
func (f *Form) Value(name string) (string, bool) {
	for _, p := range f.parts {
		if !p.isFile && p.name == name {
			return string(p.data), true
		}
	}
	return "", false
}

// Names lists part names in write order.
func (f *Form) Names() []string {
	names := make([]string, len(f.parts))
	for i, p := range f.parts {
		names[i] = p.name
	}
	return names
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range f.parts {
		var (
			dst io.Writer
			err error
		)
		if p.isFile {
			ct := p.contentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="`+quote(p.name)+`"; filename="`+quote(p.fileName)+`"`)
			h.Set("Content-Type", ct)
			dst, err = w.CreatePart(h)
		} else {
			dst, err = w.CreateFormField(p.name)
		}
		if err != nil {
			return nil, "", err
		}
		if _, err := dst.Write(p.data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string { return quoter.Replace(s) }
