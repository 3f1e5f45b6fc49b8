package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/url"
)

// Body is a request payload that knows its own content type.
type Body interface {
	encode() (io.Reader, string, error)
}

type jsonBody struct {
	v interface{}
}

// JSON encodes v as the request body.
func JSON(v interface{}) Body {
	return jsonBody{v: v}
}

func (b jsonBody) encode() (io.Reader, string, error) {
	raw, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(raw), "application/json", nil
}

// File is an uploaded file forwarded to the backend as a multipart part.
type File struct {
	Name    string
	Content []byte
}

func (f File) Empty() bool {
	return len(f.Content) == 0
}

type formField struct {
	key   string
	value string
}

type formFile struct {
	key  string
	file File
}

// Form is a multipart/form-data body. Parts are written in insertion order.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Set(key, value string) *Form {
	f.fields = append(f.fields, formField{key: key, value: value})
	return f
}

// File attaches a file part; empty files are skipped.
func (f *Form) File(key string, file File) *Form {
	if file.Empty() {
		return f
	}
	f.files = append(f.files, formFile{key: key, file: file})
	return f
}

// Get returns the first value set for key.
func (f *Form) Get(key string) (string, bool) {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.value, true
		}
	}
	return "", false
}

// Keys lists field keys in insertion order, files excluded.
func (f *Form) Keys() []string {
	keys := make([]string, 0, len(f.fields))
	for _, fl := range f.fields {
		keys = append(keys, fl.key)
	}
	return keys
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fl := range f.fields {
		if err := w.WriteField(fl.key, fl.value); err != nil {
			return nil, "", err
		}
	}
	for _, ff := range f.files {
		part, err := w.CreateFormFile(ff.key, ff.file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(ff.file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Params builds a query string. Empty values are never written, so the
// backend applies its own defaults for absent filters.
type Params map[string]string

func (p Params) Values() url.Values {
	v := url.Values{}
	for key, value := range p {
		if value == "" {
			continue
		}
		v.Set(key, value)
	}
	return v
}
