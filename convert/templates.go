package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"qpc/config"
)

// Values holds the variables available for output-name template
// expansion.
type Values struct {
	Context    string
	Title      string
	Date       string
	Format     string
	SourceFile string
}

func buildValues(name config.TemplateFieldName, title, srcName string, format config.OutputFmt) Values {
	return Values{
		Context:    string(name),
		Title:      title,
		Date:       time.Now().Format("2006-01-02"),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)),
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
