// Package scan classifies component group structs straight from Go source.
//
// It is the source-level counterpart of the reflect classifier in the group
// package and applies the same naive, purely syntactic optional test the
// runtime side documents: a field is optional only when its type is written
// as a bare `Option[T]` index expression. A qualified form such as
// `optional.Option[T]` is not recognized and classifies as required. This is
// a deliberate limitation of classifying without type resolution, reported as
// such rather than worked around.
package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"unicode"

	"component-group/group"
)

// Field is one classified field of a group struct, types as source text.
type Field struct {
	Name     string          `json:"name"`
	Declared string          `json:"declared"`
	Payload  string          `json:"payload"`
	Class    group.ClassEnum `json:"class"`
}

// Record is one struct type with its classified fields.
type Record struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
	Line   int     `json:"line"`
}

// Diagnostic is a schema-definition problem found while scanning.
type Diagnostic struct {
	Record  string `json:"record"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Report is the result of scanning one file.
type Report struct {
	File        string       `json:"file"`
	Records     []Record     `json:"records"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// File parses and scans one Go source file.
func File(path string) (*Report, error) {
	return Source(path, nil)
}

// Source scans the given source (see go/parser.ParseFile for the src forms).
func Source(filename string, src any) (*Report, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	rep := &Report{File: filename}
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				// only structs with named fields can be groups
				continue
			}
			rep.scanStruct(fset, ts.Name.Name, st)
		}
	}
	return rep, nil
}

// Record returns the scanned record with the given name, if present.
func (r *Report) Record(name string) (Record, bool) {
	for _, rec := range r.Records {
		if rec.Name == name {
			return rec, true
		}
	}
	return Record{}, false
}

func (r *Report) scanStruct(fset *token.FileSet, name string, st *ast.StructType) {
	line := fset.Position(st.Pos()).Line
	rec := Record{Name: name, Line: line}

	for _, field := range st.Fields.List {
		payload, class := classifyExpr(field.Type)
		declared := types.ExprString(field.Type)

		names := field.Names
		if len(names) == 0 {
			// embedded field, named after its type
			names = []*ast.Ident{{Name: baseName(field.Type)}}
		}
		for _, id := range names {
			if !exported(id.Name) {
				r.Diagnostics = append(r.Diagnostics, Diagnostic{
					Record:  name,
					Line:    fset.Position(id.Pos()).Line,
					Message: fmt.Sprintf("field %s is unexported; component group fields must be exported", id.Name),
				})
			}
			rec.Fields = append(rec.Fields, Field{
				Name:     id.Name,
				Declared: declared,
				Payload:  types.ExprString(payload),
				Class:    class,
			})
		}
	}

	if len(rec.Fields) == 0 {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Record:  name,
			Line:    line,
			Message: "struct must have at least one field to derive a component group",
		})
	}
	r.Records = append(r.Records, rec)
}

// classifyExpr applies the optional test to a declared type expression and
// returns the payload expression with the verdict.
func classifyExpr(e ast.Expr) (ast.Expr, group.ClassEnum) {
	ix, ok := e.(*ast.IndexExpr)
	if !ok {
		// IndexListExpr (two or more type arguments), selectors, pointers,
		// slices and every other shape are always required
		return e, group.ClassRequired
	}
	id, ok := ix.X.(*ast.Ident)
	if !ok || id.Name != "Option" {
		// a qualified optional.Option[T] lands here and stays required
		return e, group.ClassRequired
	}
	return ix.Index, group.ClassOptional
}

func baseName(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.StarExpr:
		return baseName(x.X)
	case *ast.SelectorExpr:
		return x.Sel.Name
	case *ast.IndexExpr:
		return baseName(x.X)
	}
	return ""
}

func exported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
