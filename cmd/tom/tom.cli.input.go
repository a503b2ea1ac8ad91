package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadData decodes render data from a file or an inline JSON string.
// Files ending in .yaml or .yml are decoded as YAML.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	var raw []byte
	isYAML := false

	switch {
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		raw = data
		ext := strings.ToLower(filepath.Ext(filePath))
		isYAML = ext == DataExtYAML || ext == DataExtYML
	case jsonStr != "":
		raw = []byte(jsonStr)
	default:
		return make(map[string]any), nil
	}

	var result map[string]any
	var err error
	if isYAML {
		err = yaml.Unmarshal(raw, &result)
	} else {
		err = json.Unmarshal(raw, &result)
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

// environ returns the process environment as a map for the ENV root.
func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, EnvSeparator); ok {
			env[k] = v
		}
	}
	return env
}
