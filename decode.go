package docpack

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeDocumentFile reads and decodes one source file into a Document.
// The format is chosen by extension: .yaml/.yml are YAML, everything else
// (i.e. .json) is JSON.
func decodeDocumentFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docpack: %w", err)
	}
	return decodeDocument(path, data)
}

func decodeDocument(path string, data []byte) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		doc, ok := raw.(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: path, Err: errors.New("top-level value is not a mapping")}
		}
		return Document(doc), nil
	default:
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		if doc == nil {
			return nil, &DecodeError{Path: path, Err: errors.New("top-level value is not an object")}
		}
		return Document(doc), nil
	}
}
