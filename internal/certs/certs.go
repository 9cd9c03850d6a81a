// Package certs is the on-disk store of certification markers.
//
// One JSON file per certified symbol, named by a percent-escaped encoding
// of the symbol id. Presence of the file is the entire meaning; the content
// is just a creation timestamp.
package certs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const Extension = ".json"

// Cert is the JSON payload of one certificate file.
type Cert struct {
	Timestamp time.Time `json:"timestamp"`
}

// EncodeName escapes a symbol id into a safe file-name component. Every
// byte outside [0-9A-Za-z] becomes %XX.
func EncodeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAlphanumeric(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// DecodeName is the exact inverse of EncodeName.
func DecodeName(encoded string) (string, error) {
	var b strings.Builder
	b.Grow(len(encoded))
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(encoded) {
			return "", fmt.Errorf("truncated escape in %q", encoded)
		}
		hi, ok1 := hexValue(encoded[i+1])
		lo, ok2 := hexValue(encoded[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("invalid escape %q in %q", encoded[i:i+3], encoded)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// Store addresses certificates under one directory.
type Store struct {
	Dir string
}

func (s Store) Path(name string) string {
	return filepath.Join(s.Dir, EncodeName(name)+Extension)
}

// Existing returns the symbols that currently hold a certificate. A
// missing directory reads as empty; entries that are not decodable
// certificates are ignored.
func (s Store) Existing() (map[string]bool, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to list certs in %s: %w", s.Dir, err)
	}

	existing := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ok := strings.CutSuffix(entry.Name(), Extension)
		if !ok {
			continue
		}
		name, err := DecodeName(stem)
		if err != nil {
			continue
		}
		existing[name] = true
	}
	return existing, nil
}

// Create writes the certificate for name, refreshing the timestamp when
// one already exists. Re-certifying is legal.
func (s Store) Create(name string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create certs dir %s: %w", s.Dir, err)
	}
	path := s.Path(name)
	data, err := json.MarshalIndent(Cert{Timestamp: time.Now().UTC()}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write cert for %s: %w", name, err)
	}
	return path, nil
}

// Delete removes the certificate for name if present. Removing an absent
// certificate reports removed=false and no error.
func (s Store) Delete(name string) (string, bool, error) {
	path := s.Path(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return path, false, nil
		}
		return path, false, fmt.Errorf("failed to remove cert for %s: %w", name, err)
	}
	return path, true, nil
}

// Read loads one certificate file.
func Read(path string) (Cert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Cert{}, err
	}
	var cert Cert
	if err := json.Unmarshal(data, &cert); err != nil {
		return Cert{}, fmt.Errorf("failed to decode cert %s: %w", path, err)
	}
	return cert, nil
}
