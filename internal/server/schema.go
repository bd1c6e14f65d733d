package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "mem://schemas/"

// Request schemas, by file name without extension.
const (
	schemaExtract  = "extract"
	schemaLayout   = "layout"
	schemaRender   = "render"
	schemaGenerate = "generate"
)

// schemas holds the compiled request schemas.
type schemas map[string]*jsonschema.Schema

// compileSchemas loads every embedded schema as a resource, so that relative
// $refs between them resolve, then compiles the request schemas.
func compileSchemas() (schemas, error) {
	c := jsonschema.NewCompiler()
	files, err := fs.Glob(schemaFS, "schemas/*.json")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		data, err := schemaFS.ReadFile(f)
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(schemaBase+path.Base(f), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", f, err)
		}
	}

	out := make(schemas)
	for _, name := range []string{schemaExtract, schemaLayout, schemaRender, schemaGenerate} {
		s, err := c.Compile(schemaBase + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

// decode validates body against the named schema and then unmarshals it
// into dst. Schema violations are INVALID_INPUT; errors raised while
// unmarshalling (such as a malformed category map) keep their own code.
func (s schemas) decode(name string, body []byte, dst any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "request body is not valid JSON")
	}
	if err := s[name].Validate(doc); err != nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "%s", validationMessage(err))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		if apperrors.GetCode(err) != "" {
			return err
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

// validationMessage flattens a schema validation error to its most specific
// causes.
func validationMessage(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) == 1 {
		ve = ve.Causes[0]
	}
	if len(ve.Causes) == 0 {
		return fmt.Sprintf("%s: %s", location(ve.InstanceLocation), ve.Message)
	}
	msg := ""
	for i, c := range ve.Causes {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%s: %s", location(c.InstanceLocation), c.Message)
	}
	return msg
}

func location(ptr string) string {
	if ptr == "" {
		return "request"
	}
	return ptr
}
