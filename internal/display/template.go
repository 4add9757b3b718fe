package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-stash/internal/inventory"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

const listingTemplate = `{{ .Used }}/{{ .Capacity }} slots in use
{{- range .Slots }}
{{ printf "%3d." .Index }} {{ if .Empty }}(empty){{ else }}{{ .Name | trunc 40 }} x{{ .Quantity }}{{ end }}
{{- end }}
`

type listing struct {
	Capacity int
	Used     int
	Slots    []listingRow
}

type listingRow struct {
	Index    int
	Name     string
	Quantity int
	Empty    bool
}

// RenderInventory lists every slot with the name and count it holds.
func RenderInventory(inv *inventory.Inventory) (string, error) {
	data := listing{Capacity: inv.Capacity()}
	for _, s := range inv.Slots() {
		row := listingRow{Index: s.Index(), Quantity: s.Quantity(), Empty: true}
		if top, ok := s.Top(); ok {
			row.Name = top.Name()
			row.Empty = false
			data.Used++
		}
		data.Slots = append(data.Slots, row)
	}

	out, err := ExpandTemplate(listingTemplate, data)
	if err != nil {
		return "", err
	}
	return Wrap(out), nil
}
