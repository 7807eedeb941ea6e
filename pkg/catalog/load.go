// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FormatJson = "json"
	FormatYaml = "yaml"
)

// DataSourceError reports a catalog source that could not be turned into a
// Catalog. Index is the offending record, or -1 when the whole source failed.
type DataSourceError struct {
	Path  string
	Index int
	Err   error
}

func (e *DataSourceError) Error() string {
	src := e.Path
	if src == "" {
		src = "<reader>"
	}
	if e.Index >= 0 {
		return fmt.Sprintf("catalog source %s: record %d: %v", src, e.Index, e.Err)
	}
	return fmt.Sprintf("catalog source %s: %v", src, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// pointer fields let us tell a missing field apart from an empty one
type sourceRecord struct {
	Code *string `json:"code" yaml:"code"`
	Name *string `json:"name" yaml:"name"`
}

// FormatForPath picks the source format from the file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJson, nil
	case ".yaml", ".yml":
		return FormatYaml, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads a whole catalog from a JSON or YAML file.
func Load(path string) (*Catalog, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Index: -1, Err: err}
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Index: -1, Err: err}
	}
	defer fd.Close()
	cat, err := Decode(fd, format)
	if err != nil {
		var dsErr *DataSourceError
		if errors.As(err, &dsErr) {
			dsErr.Path = path
		}
		return nil, err
	}
	return cat, nil
}

// Decode parses a list of {code, name} records. Nothing is returned unless
// every record is valid. Field names are matched exactly and the source must
// hold a single document.
func Decode(r io.Reader, format string) (*Catalog, error) {
	var records []sourceRecord
	switch format {
	case FormatJson:
		var err error
		records, err = decodeJsonRecords(r)
		if err != nil {
			return nil, err
		}
	case FormatYaml:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&records); err != nil {
			return nil, &DataSourceError{Index: -1, Err: fmt.Errorf("malformed yaml: %w", err)}
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, &DataSourceError{Index: -1, Err: errors.New("malformed yaml: more than one document")}
		}
	default:
		return nil, &DataSourceError{Index: -1, Err: fmt.Errorf("unknown format %q", format)}
	}
	entries := make([]Entry, 0, len(records))
	for idx, rec := range records {
		if rec.Code == nil {
			return nil, &DataSourceError{Index: idx, Err: errors.New("missing required field \"code\"")}
		}
		if rec.Name == nil {
			return nil, &DataSourceError{Index: idx, Err: errors.New("missing required field \"name\"")}
		}
		if strings.TrimSpace(*rec.Code) == "" {
			return nil, &DataSourceError{Index: idx, Err: errors.New("blank \"code\"")}
		}
		entries = append(entries, Entry{Code: *rec.Code, Name: *rec.Name})
	}
	return New(entries), nil
}

// encoding/json matches struct fields case-insensitively, so records go
// through a raw map to hold the keys to their exact spelling
func decodeJsonRecords(r io.Reader) ([]sourceRecord, error) {
	dec := json.NewDecoder(r)
	var raws []map[string]json.RawMessage
	if err := dec.Decode(&raws); err != nil {
		return nil, &DataSourceError{Index: -1, Err: fmt.Errorf("malformed json: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DataSourceError{Index: -1, Err: errors.New("malformed json: trailing data after the record list")}
	}
	records := make([]sourceRecord, 0, len(raws))
	for idx, raw := range raws {
		var rec sourceRecord
		var err error
		if rec.Code, err = jsonStringField(raw, "code"); err != nil {
			return nil, &DataSourceError{Index: idx, Err: err}
		}
		if rec.Name, err = jsonStringField(raw, "name"); err != nil {
			return nil, &DataSourceError{Index: idx, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// jsonStringField returns nil when key is absent
func jsonStringField(raw map[string]json.RawMessage, key string) (*string, error) {
	val, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var str *string
	if err := json.Unmarshal(val, &str); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	if str == nil {
		return nil, fmt.Errorf("field %q is null", key)
	}
	return str, nil
}
