package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Directive marks a component type for generation. Options follow as
// key=value pairs:
//
//	//tagview:component tags=alert:{type},ui:alert render=runtime priority=5
//	type Alert struct {
//	    tagview.Base
//	    Type string `arg:"type"`
//	}
const Directive = "//tagview:component"

// Suffix is appended to the source file name of generated files.
const Suffix = "_tv.go"

// Options configures the generator.
type Options struct {
	DryRun bool

	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// Generator generates tagview code.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") ||
				base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			if hasGoFiles(path) {
				packages = append(packages, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true
		}
	}
	return false
}

// generatePackage writes one file per source file declaring components.
func (g *Generator) generatePackage(pkgPath string) error {
	pkgs, err := parser.ParseDir(g.fset, pkgPath, func(info os.FileInfo) bool {
		name := info.Name()
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, Suffix)
	}, parser.ParseComments)
	if err != nil {
		return err
	}

	for pkgName, pkg := range pkgs {
		files := make([]string, 0, len(pkg.Files))
		for filename := range pkg.Files {
			files = append(files, filename)
		}
		sort.Strings(files)

		for _, filename := range files {
			components, err := g.findComponents(filename, pkg.Files[filename])
			if err != nil {
				return err
			}
			if len(components) == 0 {
				continue
			}
			if err := g.generateFile(pkgPath, pkgName, filename, components); err != nil {
				return err
			}
		}
	}

	return nil
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) {
			continue
		}
		path := filepath.Join(pkgPath, entry.Name())
		fmt.Fprintf(g.opts.Out, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

// ComponentInfo holds information about a discovered component.
type ComponentInfo struct {
	SourceFile string
	TypeName   string // e.g., "Alert"
	Name       string // explicit component name, empty to derive it
	Render     string
	Priority   int
	Tags       []string
	Args       []ArgField
}

// ArgField is a struct field bound from a named argument.
type ArgField struct {
	Field string // Go field name
	Key   string // argument name
	Type  string
}

// findComponents finds the directive-marked component types of a file.
func (g *Generator) findComponents(filename string, file *ast.File) ([]*ComponentInfo, error) {
	var components []*ComponentInfo

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			line, ok := directive(doc)
			if !ok {
				continue
			}

			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok || !embedsBase(structType) {
				return nil, fmt.Errorf("%s: %s has %s but does not embed tagview.Base",
					filepath.Base(filename), typeSpec.Name.Name, Directive)
			}

			comp := &ComponentInfo{
				SourceFile: filename,
				TypeName:   typeSpec.Name.Name,
				Args:       g.argFields(structType),
			}
			if err := parseDirective(line, comp); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", filepath.Base(filename), comp.TypeName, err)
			}
			components = append(components, comp)
		}
	}

	return components, nil
}

// directive returns the text after Directive in doc.
func directive(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		if c.Text == Directive || strings.HasPrefix(c.Text, Directive+" ") {
			return strings.TrimSpace(strings.TrimPrefix(c.Text, Directive)), true
		}
	}
	return "", false
}

// parseDirective applies the key=value options of a directive line.
func parseDirective(line string, comp *ComponentInfo) error {
	for _, field := range strings.Fields(line) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return fmt.Errorf("directive option %q is not key=value", field)
		}
		switch key {
		case "name":
			comp.Name = value
		case "render":
			switch value {
			case "live", "runtime", "static":
			default:
				return fmt.Errorf("unknown render mode %q", value)
			}
			comp.Render = value
		case "priority":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("priority %q: %w", value, err)
			}
			comp.Priority = n
		case "tags":
			for _, tag := range strings.Split(value, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					comp.Tags = append(comp.Tags, tag)
				}
			}
		default:
			return fmt.Errorf("unknown directive option %q", key)
		}
	}
	return nil
}

// embedsBase checks if a struct embeds tagview.Base or Base.
func embedsBase(structType *ast.StructType) bool {
	for _, field := range structType.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		switch x := field.Type.(type) {
		case *ast.SelectorExpr:
			if x.Sel.Name == "Base" {
				return true
			}
		case *ast.Ident:
			if x.Name == "Base" {
				return true
			}
		}
	}
	return false
}

// argFields lists the fields a typed binder can assign: exported scalar
// fields, keyed by their arg tag or their lower-cased name.
func (g *Generator) argFields(structType *ast.StructType) []ArgField {
	var fields []ArgField

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			continue
		}
		typ := g.typeToString(field.Type)
		if !isScalarType(typ) {
			continue
		}

		key := ""
		if field.Tag != nil {
			tag, err := strconv.Unquote(field.Tag.Value)
			if err == nil {
				var excluded bool
				key, excluded = parseArgTag(tag)
				if excluded {
					continue
				}
			}
		}

		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			k := key
			if k == "" {
				k = strings.ToLower(name.Name)
			}
			fields = append(fields, ArgField{Field: name.Name, Key: k, Type: typ})
		}
	}

	return fields
}

// typeToString converts an AST type to a string representation.
func (g *Generator) typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + g.typeToString(t.X)
	case *ast.SelectorExpr:
		return g.typeToString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + g.typeToString(t.Elt)
		}
		return "[...]" + g.typeToString(t.Elt)
	case *ast.MapType:
		return "map[" + g.typeToString(t.Key) + "]" + g.typeToString(t.Value)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// parseArgTag reads the arg key of a struct tag.
func parseArgTag(tag string) (key string, exclude bool) {
	value, ok := reflect.StructTag(tag).Lookup("arg")
	if !ok {
		return "", false
	}
	if value == "-" {
		return "", true
	}
	return value, false
}

// isScalarType checks if the binder handles a type. Other fields fall back
// to reflective binding.
func isScalarType(typeName string) bool {
	switch typeName {
	case "string", "bool", "int", "int64", "float64":
		return true
	default:
		return false
	}
}
