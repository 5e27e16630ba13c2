package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

const defaultPartType = "application/octet-stream"

// MultipartBody is a multipart/form-data request body. Setting it as
// Request.Body makes the client encode it and set the boundary header.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one uploaded file. Data wins over Reader when both are set.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	Reader      io.Reader
}

// encode writes fields in key order, then files in slice order.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("multipart field %s: %w", k, err)
		}
	}
	for _, f := range m.Files {
		if err := f.writeTo(w); err != nil {
			return nil, "", fmt.Errorf("multipart file %s: %w", f.FieldName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (f FileField) writeTo(w *multipart.Writer) error {
	if f.Data == nil && f.Reader == nil {
		return fmt.Errorf("no content")
	}
	ct := f.ContentType
	if ct == "" {
		ct = defaultPartType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if f.Data != nil {
		_, err = part.Write(f.Data)
		return err
	}
	_, err = io.Copy(part, f.Reader)
	return err
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
