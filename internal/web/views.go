package web

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/a-h/templ"
)

const pageHead = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Conciliación de resoluciones</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: .25rem .5rem; text-align: right; }
.error { color: #a00; }
</style>
</head>
<body>
`

// uploadPage is the form for a reconciliation run.
func uploadPage(historyEnabled bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<h1>Conciliación de resoluciones</h1>
<form method="post" action="/api/reconcile" enctype="multipart/form-data">
<p><label>Base <input type="file" name="base" accept=".xlsx,.csv" required></label></p>
<p><label>Búsqueda <input type="file" name="search" accept=".xlsx,.csv" required></label></p>
<p>
<button type="submit" name="download" value="final">Descargar final.xlsx</button>
<button type="submit" name="download" value="unmatched">Descargar no_encontrados.xlsx</button>
<button type="submit" name="download" value="duplicates">Descargar duplicados.xlsx</button>
</p>
</form>
`)
		if err != nil {
			return err
		}
		if historyEnabled {
			if _, err := io.WriteString(w, `<p><a href="/api/runs">Historial de ejecuciones</a></p>`+"\n"); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// summaryFragment renders a run summary as a table.
func summaryFragment(s reconcile.Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := []struct {
			label string
			value int
		}{
			{"Filas base", s.BaseRows},
			{"Filas búsqueda", s.SearchRows},
			{"Encontrados", s.Matched},
			{"No encontrados", s.Unmatched},
			{"Grupos duplicados", s.DuplicateGroups},
			{"Filas duplicadas", s.DuplicateRows},
			{"Fechas no leídas", s.DateParseFailures},
			{"Filas finales", s.FinalRows},
		}

		if _, err := fmt.Fprintf(w, "<table id=\"summary\" data-run-id=\"%s\">\n",
			templ.EscapeString(s.RunID.String())); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "<tr><th>%s</th><td>%d</td></tr>\n",
				templ.EscapeString(r.label), r.value); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}

// errorAlert renders a user-facing error for HTMX requests.
func errorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<div class=\"error\" role=\"alert\"><strong>%s</strong> <span>%s</span> <code>%s</code></div>\n",
			templ.EscapeString(msg.Message),
			templ.EscapeString(msg.Action),
			templ.EscapeString(msg.Code))
		return err
	})
}
