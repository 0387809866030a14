package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/money"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return money.Format(d) },
}

var views = []string{"index", "preview"}

func parseTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template, len(views))
	for _, view := range views {
		templates[view] = template.Must(template.New(view).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.tmpl", "templates/"+view+".tmpl"))
	}
	return templates
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.log.Errorf("The template %s does not exist.", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.WithError(err).Error("failed to render template")
	}
}
