package extract

import (
	"path/filepath"
	"strings"
)

// NamingConvention derives a municipality from a filename. It returns "" when
// the filename does not follow the convention.
type NamingConvention interface {
	Municipality(filename string) string
}

// FilenameConvention reads names shaped like
// "<anything>-<MUNICIPIO>[-<anything>].pdf": the second hyphen-delimited token
// is the municipality. Nothing else about the filename is interpreted.
type FilenameConvention struct{}

func (FilenameConvention) Municipality(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(base, "-")
	if len(parts) < 2 {
		return ""
	}
	name := strings.TrimSpace(strings.ReplaceAll(parts[1], "_", " "))
	return strings.ToUpper(name)
}

// NoNaming never derives a municipality
type NoNaming struct{}

func (NoNaming) Municipality(string) string { return "" }
