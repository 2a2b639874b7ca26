package catalog

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddlFile string

// DefaultDDLStatements returns the CREATE TABLE / INDEX statements from
// schema.sql for setup tooling. It splits on semicolons and drops comments
// and blank fragments.
func DefaultDDLStatements() []string {
	parts := strings.Split(ddlFile, ";")
	var out []string
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// SchemaSQL returns the embedded schema verbatim.
func SchemaSQL() string { return ddlFile }
