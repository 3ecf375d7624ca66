package surveygate

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"
)

// decodeDocument parses the upload envelope. Numbers stay json.Number so
// integer range checks never round-trip through float64.
func decodeDocument(data []byte) (map[string]any, error) {
	return decodeFrom(bytes.NewReader(data))
}

func decodeFrom(r io.Reader) (map[string]any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ---- envelope accessors ----
//
// The walker navigates the decoded document with fetch-or-report-absence
// helpers and turns absence into missing_key issues at the right path.

func getString(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	return s, ok
}

func getArray(obj map[string]any, key string) ([]any, bool) {
	a, ok := obj[key].([]any)
	return a, ok
}

// getBool accepts JSON booleans and their common string encodings; older
// clients upload "true"/"false" for the repeatable set flags.
func getBool(obj map[string]any, key string) (bool, bool) {
	switch v := obj[key].(type) {
	case bool:
		return v, true
	case string:
		if v == "true" {
			return true, true
		}
		if v == "false" {
			return false, true
		}
	}
	return false, false
}
