package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// ImportPath is the import path of the tagview package in generated code.
const ImportPath = "github.com/pthm/tagview"

// generateFile writes the *_tv.go file for the components of one source
// file.
func (g *Generator) generateFile(pkgPath, pkgName, sourceFile string, components []*ComponentInfo) error {
	baseName := strings.TrimSuffix(filepath.Base(sourceFile), ".go")
	outputFile := filepath.Join(pkgPath, baseName+Suffix)

	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)

	if g.opts.DryRun {
		return nil
	}

	code, err := Render(pkgName, filepath.Base(sourceFile), components)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, code, 0o644)
}

// Render returns the formatted generated source for components.
func Render(pkgName, sourceFile string, components []*ComponentInfo) ([]byte, error) {
	tmpl, err := template.New("tv").Funcs(template.FuncMap{
		"quote":  strconv.Quote,
		"bind":   bindFieldCode,
		"render": renderModeCode,
	}).Parse(tvTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package    string
		Source     string
		Import     string
		Components []*ComponentInfo
	}{
		Package:    pkgName,
		Source:     sourceFile,
		Import:     ImportPath,
		Components: components,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w\n%s", err, buf.Bytes())
	}
	return formatted, nil
}

// bindFieldCode generates the case body assigning one field. Fields are
// only assigned while zero so preset values win.
func bindFieldCode(f ArgField) string {
	var zero, conv string
	switch f.Type {
	case "string":
		zero, conv = `c.%s != ""`, "tagview.ArgString(value)"
	case "bool":
		zero, conv = "c.%s", "tagview.ArgBool(value)"
	case "int":
		zero, conv = "c.%s != 0", "tagview.ArgInt(value)"
	case "int64":
		zero, conv = "c.%s != 0", "tagview.ArgInt(value)"
	case "float64":
		zero, conv = "c.%s != 0", "tagview.ArgFloat(value)"
	default:
		return "return false, nil"
	}

	assign := "c.%s = v"
	if f.Type == "int64" {
		assign = "c.%s = int64(v)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "if "+zero+" {\n\treturn true, nil\n}\n", f.Field)
	fmt.Fprintf(&b, "v, err := %s\nif err != nil {\n\treturn true, err\n}\n", conv)
	fmt.Fprintf(&b, assign+"\nreturn true, nil", f.Field)
	return b.String()
}

func renderModeCode(mode string) string {
	switch mode {
	case "live":
		return "tagview.RenderLive"
	case "static":
		return "tagview.RenderStatic"
	default:
		return "tagview.RenderRuntime"
	}
}

const tvTemplate = `// Code generated by tagview. DO NOT EDIT.
// Source: {{.Source}}

package {{.Package}}

import "{{.Import}}"
{{range .Components}}
var _ tagview.ArgumentBinder = (*{{.TypeName}})(nil)

// BindArgument binds named arguments without reflection.
func (c *{{.TypeName}}) BindArgument(name string, value any) (bool, error) {
	if value == nil {
		return false, nil
	}
	{{- if .Args}}
	switch name {
	{{- range .Args}}
	case {{quote .Key}}:
		{{bind .}}
	{{- end}}
	}
	{{- end}}
	return false, nil
}

// {{.TypeName}}Descriptor returns the registration descriptor of {{.TypeName}}.
func {{.TypeName}}Descriptor() tagview.Descriptor {
	return tagview.Describe(tagview.Descriptor{
		{{- if .Name}}
		Name: {{quote .Name}},
		{{- end}}
		Render: {{render .Render}},
		{{- if .Priority}}
		Priority: {{.Priority}},
		{{- end}}
		{{- if .Tags}}
		Tags: []string{ {{- range $i, $t := .Tags}}{{if $i}}, {{end}}{{quote $t}}{{end -}} },
		{{- end}}
		New: func() tagview.Component { return &{{.TypeName}}{} },
	})
}
{{end}}`
