package manage

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/view"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

// upload reads one submitted file. It returns nil when the field is empty
// or the request is not multipart.
func upload(c *gin.Context, field string) (*model.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, errors.NewBadRequest("Fichier illisible", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.NewBadRequest("Fichier illisible", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewBadRequest("Fichier illisible", err)
	}
	if len(content) == 0 {
		return nil, nil
	}
	return &model.Upload{Name: fh.Filename, Content: content}, nil
}

// changed returns the submitted value of field when it differs from
// baseline. Absent fields count as unchanged.
func changed(c *gin.Context, field, baseline string) *string {
	v, ok := c.GetPostForm(field)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == baseline {
		return nil
	}
	return &v
}

func invalid(label string) error {
	return errors.Validation((&validator.FieldError{Invalid: []string{label}}).Error())
}

// optionalFloat parses a numeric form field. A blank value is absent.
func optionalFloat(c *gin.Context, field, label string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return nil, invalid(label)
	}
	return &f, nil
}

// changedFloat parses field and reports it only when it differs from
// baseline.
func changedFloat(c *gin.Context, field, label string, baseline *float64) (*float64, error) {
	f, err := optionalFloat(c, field, label)
	if err != nil || f == nil {
		return nil, err
	}
	if baseline != nil && *baseline == *f {
		return nil, nil
	}
	return f, nil
}

func optionalID(c *gin.Context, field, label string) (int64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalid(label)
	}
	return id, nil
}

func trimmed(c *gin.Context, field string) string {
	return strings.TrimSpace(c.PostForm(field))
}

// documents reads the document rows documents[i][title|type|file]. Rows
// without a file are skipped.
func documents(c *gin.Context, slots int) ([]model.DocumentUpload, error) {
	var docs []model.DocumentUpload
	for i := 0; i < slots; i++ {
		file, err := upload(c, fmt.Sprintf("documents[%d][file]", i))
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}
		title := trimmed(c, fmt.Sprintf("documents[%d][title]", i))
		if title == "" {
			title = file.Name
		}
		docs = append(docs, model.DocumentUpload{
			Title: title,
			Type:  trimmed(c, fmt.Sprintf("documents[%d][type]", i)),
			File:  *file,
		})
	}
	return docs, nil
}

func options(current string, pairs ...string) []view.Option {
	opts := make([]view.Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		opts = append(opts, view.Option{Value: pairs[i], Label: pairs[i+1], Selected: pairs[i] == current})
	}
	return opts
}

// refill puts the submitted values back into a form re-rendered after a
// failure. Passwords and files are never echoed.
func refill(f view.Form, c *gin.Context) view.Form {
	fields := make([]view.FormField, len(f.Fields))
	copy(fields, f.Fields)
	for i, fld := range fields {
		if fld.Type == "password" || fld.Type == "file" {
			continue
		}
		v, ok := c.GetPostForm(fld.Name)
		if !ok {
			continue
		}
		fields[i].Value = v
		if len(fld.Options) == 0 {
			continue
		}
		fields[i].Options = append([]view.Option(nil), fld.Options...)
		for j := range fields[i].Options {
			fields[i].Options[j].Selected = fields[i].Options[j].Value == v
		}
	}
	f.Fields = fields
	return f
}
