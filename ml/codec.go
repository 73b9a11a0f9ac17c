package ml

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact formats, selected by file extension.
const (
	FormatJSON = ".json"
	FormatGob  = ".gob"
)

func artifactFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case FormatJSON, FormatGob:
		return ext, nil
	default:
		return "", fmt.Errorf("unsupported artifact format %q (want .json or .gob)", ext)
	}
}

func decodeFile(path string, v interface{}) error {
	format, err := artifactFormat(path)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case FormatGob:
		return gob.NewDecoder(file).Decode(v)
	default:
		return json.NewDecoder(file).Decode(v)
	}
}

func encodeFile(path string, v interface{}) error {
	format, err := artifactFormat(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var payload []byte
	switch format {
	case FormatGob:
		file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		if err := gob.NewEncoder(file).Encode(v); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	default:
		payload, err = json.Marshal(v)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, payload, 0o600)
}
