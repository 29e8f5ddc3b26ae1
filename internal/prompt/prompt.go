// Package prompt renders the two prompts aimemo sends to the model.
// Templates are YAML documents baked into the binary with go:embed.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var embeddedTemplates embed.FS

// Template is one embedded prompt definition.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Template    string `yaml:"template"`

	tmpl *template.Template
}

// ClassifyData feeds the classification prompt.
type ClassifyData struct {
	Memo       string
	Categories []string
}

// MergeData feeds the note rewrite prompt.
type MergeData struct {
	Section  string // e.g. "## Memo"
	Existing string // full current note text
	Memo     string
}

var funcs = template.FuncMap{
	"quoteList": quoteList,
}

var (
	loadOnce  sync.Once
	templates map[string]*Template
	loadErr   error
)

// quoteList renders items as a bracketed, quoted list: ["a", "b"].
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = strconv.Quote(it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func load() (map[string]*Template, error) {
	loadOnce.Do(func() {
		templates = make(map[string]*Template)
		for _, name := range []string{"classify", "merge"} {
			data, err := embeddedTemplates.ReadFile("templates/" + name + ".yaml")
			if err != nil {
				loadErr = fmt.Errorf("read template %s: %w", name, err)
				return
			}
			var t Template
			if err := yaml.Unmarshal(data, &t); err != nil {
				loadErr = fmt.Errorf("parse template %s: %w", name, err)
				return
			}
			t.tmpl, err = template.New(t.Name).Funcs(funcs).Option("missingkey=error").Parse(t.Template)
			if err != nil {
				loadErr = fmt.Errorf("compile template %s: %w", name, err)
				return
			}
			templates[name] = &t
		}
	})
	return templates, loadErr
}

// Get returns the named template.
func Get(name string) (*Template, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	t, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt template %q", name)
	}
	return t, nil
}

func render(name string, data any) (string, error) {
	t, err := Get(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// Classify renders the classification prompt.
func Classify(data ClassifyData) (string, error) {
	return render("classify", data)
}

// Merge renders the note rewrite prompt.
func Merge(data MergeData) (string, error) {
	return render("merge", data)
}
