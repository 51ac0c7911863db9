package pdf

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"campus-lending/internal/domain/contract"
)

//go:embed contract.html
var contractHTML string

var contractTmpl = template.Must(template.New("contract").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(contractHTML))

// RenderHTML fills the contract template; the result is fed to the PDF printer.
func RenderHTML(d contract.Data) (string, error) {
	var buf bytes.Buffer
	if err := contractTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
