package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/tasks.schema.json
var taskFileSchema string

const taskFileSchemaURL = "tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func taskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(taskFileSchemaURL, strings.NewReader(taskFileSchema)); err != nil {
			schemaErr = fmt.Errorf("storage: add task schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(taskFileSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("storage: compile task schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// schemaParseError reports the first leaf violation and how many others there were.
func schemaParseError(path string, err error) *ParseError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ParseError{Path: path, Err: err}
	}
	leaves := leafViolations(ve, nil)
	if len(leaves) == 0 {
		return &ParseError{Path: path, Location: jsonPointerToPath(ve.InstanceLocation), Err: errors.New(ve.Message)}
	}
	first := leaves[0]
	msg := first.Message
	if extra := len(leaves) - 1; extra > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, extra)
	}
	return &ParseError{Path: path, Location: jsonPointerToPath(first.InstanceLocation), Err: errors.New(msg)}
}

func leafViolations(err *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if err == nil {
		return out
	}
	if len(err.Causes) == 0 {
		return append(out, err)
	}
	for _, cause := range err.Causes {
		out = leafViolations(cause, out)
	}
	return out
}

// jsonPointerToPath turns "/2/remind_at" into "[2].remind_at".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
