// Package boundaries is the build-time boundary check for domain modules.
//
// It parses import clauses only (no type checking, no runtime behavior) and
// fails the build when one module's implementation reaches into another
// module's internals, or when domain logic leans on infrastructure. The
// check is deliberately conservative: a legitimately shared abstraction is
// promoted into a domain-free shared layer, never exempted here.
package boundaries

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Violation is one illegal import edge.
type Violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// Checker validates the domains tree of one repository.
type Checker struct {
	// ModulePath is the Go module path, "caravel" in this repository.
	ModulePath string
	// DomainsDir is the directory holding domain modules, relative to root.
	DomainsDir string
}

func DefaultChecker() Checker {
	return Checker{
		ModulePath: "caravel",
		DomainsDir: "domains",
	}
}

// Check walks root/DomainsDir and returns sorted violations.
func (c Checker) Check(root string) ([]Violation, error) {
	modulePath := strings.TrimSpace(c.ModulePath)
	if modulePath == "" {
		return nil, fmt.Errorf("boundaries: module path is required")
	}
	domainsDir := c.DomainsDir
	if domainsDir == "" {
		domainsDir = "domains"
	}

	var violations []Violation

	start := filepath.Join(root, domainsDir)
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		normalized := filepath.ToSlash(rel)

		parts := strings.Split(normalized, "/")
		if len(parts) < 3 || parts[0] != domainsDir {
			return nil
		}

		moduleName := parts[1]
		layer := parts[2]
		if strings.HasSuffix(layer, ".go") {
			// module.go / doc.go at the module root compose adapters and may
			// import freely within the module.
			layer = ""
		}

		violations = append(violations, c.validateFile(path, normalized, moduleName, layer)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})
	return violations, nil
}

func (c Checker) validateFile(path, normalizedPath, moduleName, layer string) []Violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []Violation{{
			File: normalizedPath,
			Line: 1,
			Rule: "file must parse",
		}}
	}

	domainsPrefix := c.ModulePath + "/" + c.domainsDir() + "/"
	modulePrefix := domainsPrefix + moduleName

	var violations []Violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if strings.HasPrefix(importPath, domainsPrefix) && !hasPrefix(importPath, modulePrefix) {
			if !isCapabilityPortImport(importPath, domainsPrefix) {
				violations = append(violations, Violation{
					File:   normalizedPath,
					Line:   line,
					Import: importPath,
					Rule:   "cross-module dependencies must go through the target module's ports package",
				})
			}
		}

		switch layer {
		case "domain":
			violations = append(violations, c.validateDomainImport(normalizedPath, line, importPath, modulePrefix)...)
		case "application":
			violations = append(violations, c.validateApplicationImport(normalizedPath, line, importPath, modulePrefix, domainsPrefix)...)
		case "ports":
			violations = append(violations, c.validatePortsImport(normalizedPath, line, importPath, modulePrefix)...)
		}
	}
	return violations
}

// validateDomainImport keeps pure domain logic free of frameworks: a domain
// package may import its own module's domain packages and the standard
// library, nothing else.
func (c Checker) validateDomainImport(file string, line int, importPath, modulePrefix string) []Violation {
	if c.isStdlib(importPath) {
		return nil
	}
	if hasPrefix(importPath, modulePrefix+"/domain") {
		return nil
	}

	rule := "domain packages may import only their own domain and the standard library"
	if strings.HasPrefix(importPath, c.ModulePath+"/internal/") {
		rule = "domain packages must not import runtime infrastructure"
	}
	return []Violation{{File: file, Line: line, Import: importPath, Rule: rule}}
}

// validateApplicationImport allows the application layer its own module, the
// capability ports of other modules, the shared contracts layer, and the
// standard library.
func (c Checker) validateApplicationImport(file string, line int, importPath, modulePrefix, domainsPrefix string) []Violation {
	if c.isStdlib(importPath) {
		return nil
	}

	allowed := []string{
		modulePrefix + "/application",
		modulePrefix + "/domain",
		modulePrefix + "/ports",
		c.ModulePath + "/contracts",
	}
	if isAllowed(importPath, allowed) || isCapabilityPortImport(importPath, domainsPrefix) {
		return nil
	}

	rule := "application import is outside the explicit allowlist"
	if strings.HasPrefix(importPath, c.ModulePath+"/internal/") {
		rule = "application packages must not import runtime infrastructure"
	}
	return []Violation{{File: file, Line: line, Import: importPath, Rule: rule}}
}

// validatePortsImport keeps capability ports value-only: a ports package may
// reference its own module's domain values, the shared contracts layer, and
// the standard library; never adapters, infrastructure, or other modules.
func (c Checker) validatePortsImport(file string, line int, importPath, modulePrefix string) []Violation {
	if c.isStdlib(importPath) {
		return nil
	}

	allowed := []string{
		modulePrefix + "/domain",
		c.ModulePath + "/contracts",
	}
	if isAllowed(importPath, allowed) {
		return nil
	}
	return []Violation{{
		File:   file,
		Line:   line,
		Import: importPath,
		Rule:   "ports may carry only value shapes: own domain values, contracts, standard library",
	}}
}

func (c Checker) domainsDir() string {
	if c.DomainsDir == "" {
		return "domains"
	}
	return c.DomainsDir
}

func (c Checker) isStdlib(importPath string) bool {
	if strings.HasPrefix(importPath, c.ModulePath+"/") {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}

// isCapabilityPortImport reports whether importPath lands exactly on some
// module's ports package, the one legal cross-module edge.
func isCapabilityPortImport(importPath, domainsPrefix string) bool {
	if !strings.HasPrefix(importPath, domainsPrefix) {
		return false
	}
	rest := strings.TrimPrefix(importPath, domainsPrefix)
	parts := strings.Split(rest, "/")
	return len(parts) == 2 && parts[1] == "ports"
}

func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, prefix := range allowedPrefixes {
		if hasPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}
