package schema

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Enum is a schema-native enum declaration: the identifiers the store
// accepts plus optional human-readable aliases declared alongside them.
type Enum struct {
	Name    string
	Values  []string
	aliases map[string]string // normalized alias -> identifier
}

// Resolver translates human-readable labels into schema-native enum
// identifiers. Built once per run from the schema directory.
type Resolver struct {
	enums map[string]*Enum
}

var (
	createTypeRegex = regexp.MustCompile(`(?is)CREATE\s+TYPE\s+"?(\w+)"?\s+AS\s+ENUM\s*\((.*?)\)\s*;`)
	enumValueRegex  = regexp.MustCompile(`'([^']+)'\s*,?\s*(?:--\s*alias:\s*(.+))?$`)
)

// ParseFiles scans .sql schema files for CREATE TYPE ... AS ENUM
// declarations. Each value may carry a trailing alias annotation:
//
//	CREATE TYPE appointment_status AS ENUM (
//	    'SCHEDULED', -- alias: Scheduled
//	    'CANCELLED'  -- alias: Cancelled
//	);
func ParseFiles(paths []string) (*Resolver, error) {
	r := &Resolver{enums: make(map[string]*Enum)}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
		}
		r.parseContent(string(content))
	}

	return r, nil
}

// ParseSQL builds a resolver from raw schema SQL. Used by tests and by
// callers that already hold the schema in memory.
func ParseSQL(sql string) *Resolver {
	r := &Resolver{enums: make(map[string]*Enum)}
	r.parseContent(sql)
	return r
}

func (r *Resolver) parseContent(content string) {
	matches := createTypeRegex.FindAllStringSubmatch(content, -1)
	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		enum := &Enum{
			Name:    strings.ToLower(match[1]),
			aliases: make(map[string]string),
		}

		for _, line := range strings.Split(match[2], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			valueMatch := enumValueRegex.FindStringSubmatch(line)
			if valueMatch == nil {
				continue
			}

			identifier := valueMatch[1]
			enum.Values = append(enum.Values, identifier)

			if alias := strings.TrimSpace(valueMatch[2]); alias != "" {
				enum.aliases[normalize(alias)] = identifier
			}
		}

		if len(enum.Values) > 0 {
			r.enums[enum.Name] = enum
		}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve translates a label into the schema identifier for enumName.
// A label matches either an identifier (case-insensitive) or a declared
// alias. The second return is false when no match exists.
func (r *Resolver) Resolve(enumName, label string) (string, bool) {
	enum, ok := r.enums[normalize(enumName)]
	if !ok {
		return "", false
	}

	want := normalize(label)
	for _, v := range enum.Values {
		if normalize(v) == want {
			return v, true
		}
	}
	if id, ok := enum.aliases[want]; ok {
		return id, true
	}
	return "", false
}

// First returns the first declared identifier for enumName. Used as the
// non-fatal fallback when a label cannot be resolved.
func (r *Resolver) First(enumName string) (string, bool) {
	enum, ok := r.enums[normalize(enumName)]
	if !ok || len(enum.Values) == 0 {
		return "", false
	}
	return enum.Values[0], true
}

// Enums returns the declared enum names. Diagnostic output only.
func (r *Resolver) Enums() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	return names
}
