package mail

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements service.MailRenderer with the embedded HTML templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (service.MailRenderer, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"date": func(layout string, t time.Time) string {
			if t.IsZero() {
				return ""
			}

			return t.Format(layout)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse mail templates")
	}

	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) RenderReceipt(view *service.ReceiptView) (string, error) {
	return r.render("receipt.html", view)
}

func (r *Renderer) RenderContact(view *service.ContactView) (string, error) {
	return r.render("contact.html", view)
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "execute template %s", name)
	}

	return buf.String(), nil
}
