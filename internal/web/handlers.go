package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/core/tables"
	"github.com/JonMunkholm/resolutions/internal/logging"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/JonMunkholm/resolutions/internal/sheet"
	"github.com/JonMunkholm/resolutions/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// TableJSON is a table in API responses.
type TableJSON struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ReconcileResponse is the body of a successful POST /api/reconcile.
type ReconcileResponse struct {
	Summary    reconcile.Summary `json:"summary"`
	Final      TableJSON         `json:"final"`
	Unmatched  TableJSON         `json:"unmatched"`
	Duplicates TableJSON         `json:"duplicates"`
}

func tableJSON(t *core.Table) TableJSON {
	out := TableJSON{Columns: t.Columns, Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = row
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadPage(s.history != nil).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"history": s.history != nil,
		"running": s.limiter.running(),
	})
}

// handleReconcile runs one batch over the uploaded "base" and "search"
// files. With ?download=final|unmatched|duplicates (or the same form
// field) the chosen table is returned as an .xlsx attachment; HTMX requests
// get the summary fragment; everything else gets JSON.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.acquire(r.Context()); err != nil {
		w.Header().Set("Retry-After", "30")
		s.respondError(w, r, err, http.StatusTooManyRequests)
		return
	}
	defer s.limiter.release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		status := http.StatusBadRequest
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		s.respondError(w, r, fmt.Errorf("parse upload: %w", err), status)
		return
	}
	defer r.MultipartForm.RemoveAll()

	base, err := readUpload(r, "base", tables.BaseKey)
	if err != nil {
		s.respondError(w, r, core.AtStage(core.StageLoad, err), statusFor(err))
		return
	}
	search, err := readUpload(r, "search", tables.SearchKey)
	if err != nil {
		s.respondError(w, r, core.AtStage(core.StageLoad, err), statusFor(err))
		return
	}

	res, err := reconcile.Execute(r.Context(), reconcile.Input{Base: base, Search: search}, s.opts)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	res.Summary.BasePath = uploadName(r, "base")
	res.Summary.SearchPath = uploadName(r, "search")

	ctx := logging.ContextWithRunID(r.Context(), res.Summary.RunID.String())
	if s.history != nil {
		reconcile.Record(ctx, s.history, res)
	}
	logging.FromContext(ctx).Info("upload reconciled", "summary", res.Summary)

	if name := r.FormValue("download"); name != "" {
		s.writeDownload(w, r, res, name)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = summaryFragment(res.Summary).Render(r.Context(), w)
		return
	}

	writeJSON(w, r, http.StatusOK, ReconcileResponse{
		Summary:    res.Summary,
		Final:      tableJSON(res.Final),
		Unmatched:  tableJSON(res.Unmatched),
		Duplicates: tableJSON(res.Duplicates),
	})
}

// writeDownload streams one output table as a workbook.
func (s *Server) writeDownload(w http.ResponseWriter, r *http.Request, res *reconcile.Result, name string) {
	outputs := map[string]*core.Table{
		"final":      res.Final,
		"unmatched":  res.Unmatched,
		"duplicates": res.Duplicates,
	}
	t, ok := outputs[name]
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown download %q", name), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	if err := sheet.Encode(w, sheet.FormatXLSX, t); err != nil {
		logging.FromContext(r.Context()).Error("encode download",
			"error", &core.WriteError{Output: name, Path: "response", Err: err})
	}
}

// readUpload loads the multipart file in field as the registered table key.
func readUpload(r *http.Request, field, key string) (*core.Table, error) {
	def, err := core.Lookup(key)
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, &core.LoadError{Table: key, Path: field, Err: fmt.Errorf("no such file in upload: %w", err)}
	}
	defer file.Close()

	format, err := sheet.FormatFromPath(header.Filename)
	if err != nil {
		return nil, &core.LoadError{Table: key, Path: header.Filename, Err: err}
	}

	t, report, err := sheet.Read(file, header.Filename, format, def)
	if err != nil {
		return nil, err
	}
	if n := len(report.Warnings); n > 0 {
		logging.FromContext(r.Context()).Debug("upload cell warnings", "table", key, "count", n)
	}
	return t, nil
}

func uploadName(r *http.Request, field string) string {
	if r.MultipartForm == nil {
		return ""
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return ""
	}
	return files[0].Filename
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, r, errHistoryDisabled, http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.respondError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []reconcile.Summary{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, r, errHistoryDisabled, http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, errInvalidRunID, http.StatusBadRequest)
		return
	}

	run, err := s.history.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}
