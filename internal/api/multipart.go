package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Form accumulates multipart/form-data fields for upload requests.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
}

func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// AddField writes a plain text field. Empty values are still written so
// the backend sees every expected key.
func (f *Form) AddField(name, value string) error {
	return f.writer.WriteField(name, value)
}

// AddFile streams r into a file part named field.
func (f *Form) AddFile(field, filename string, r io.Reader) error {
	part, err := f.writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}

	_, err = io.Copy(part, r)
	return err
}

// AddFilePath opens path and attaches its contents as a file part.
func (f *Form) AddFilePath(field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}

	defer file.Close()

	return f.AddFile(field, filepath.Base(path), file)
}

// ContentType returns the multipart content type with its boundary.
func (f *Form) ContentType() string {
	return f.writer.FormDataContentType()
}

// Reader finalizes the form and returns the encoded body.
func (f *Form) Reader() (io.Reader, error) {
	if !f.closed {
		if err := f.writer.Close(); err != nil {
			return nil, err
		}

		f.closed = true
	}

	return &f.buf, nil
}
