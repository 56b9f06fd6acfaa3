package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yorozuya-cybersecurity/netrunner/internal/errs"
)

// CreateJSON writes v as indented JSON to a new file at path. An existing
// file is left untouched and the error matches os.ErrExist.
func CreateJSON(path string, v interface{}) error {
	return create(path, func(fh *os.File) error {
		enc := json.NewEncoder(fh)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	})
}

// CreateText writes s to a new file at path, failing like CreateJSON when
// the file exists.
func CreateText(path, s string) error {
	return create(path, func(fh *os.File) error {
		_, err := fh.WriteString(s)
		return err
	})
}

// WriteText writes s to path, replacing any existing file.
func WriteText(path, s string) error {
	if err := os.WriteFile(path, []byte(s), 0644); err != nil {
		return &errs.WriteError{Path: path, Err: err}
	}
	return nil
}

func create(path string, write func(*os.File) error) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return &errs.WriteError{Path: path, Err: err}
	}
	if err := write(fh); err != nil {
		fh.Close()
		return &errs.WriteError{Path: path, Err: err}
	}
	if err := fh.Close(); err != nil {
		return &errs.WriteError{Path: path, Err: err}
	}
	return nil
}

// SafeName replaces characters not safe for file paths
func SafeName(s string) string {
	invalid := []rune{'/', '\\', ':', '*', '?', '"', '<', '>', '|'}
	rs := []rune(s)
	for i, r := range rs {
		for _, bad := range invalid {
			if r == bad {
				rs[i] = '_'
			}
		}
	}
	return string(rs)
}
