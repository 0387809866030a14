// Package web serves the upload, preview and download form.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/batch"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/report"
)

// Server handles the web form
type Server struct {
	processor *batch.Processor
	store     *Store
	maxUpload int64
	addressee string
	now       func() time.Time
	log       logrus.FieldLogger
	templates map[string]*template.Template
}

// Option configures a Server
type Option func(*Server)

// WithStore replaces the batch store
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithMaxUploadMB caps the size of one multipart request
func WithMaxUploadMB(mb int64) Option {
	return func(s *Server) {
		if mb > 0 {
			s.maxUpload = mb << 20
		}
	}
}

// WithAddressee sets the addressee prefilled in the form
func WithAddressee(addressee string) Option {
	return func(s *Server) {
		s.addressee = addressee
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a Server around a batch processor
func NewServer(processor *batch.Processor, opts ...Option) *Server {
	s := &Server{
		processor: processor,
		store:     NewStore(30 * time.Minute),
		maxUpload: 32 << 20,
		addressee: report.DefaultAddressee,
		now:       time.Now,
		log:       logrus.StandardLogger(),
		templates: parseTemplates(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP routes
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/extract", s.handleExtract).Methods("POST")
	router.HandleFunc("/batches/{id}/report.xlsx", s.handleReport).Methods("GET")
	router.HandleFunc("/batches/{id}/letters.zip", s.handleLetters).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	return router
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", map[string]any{"Addressee": s.addressee})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		http.Error(w, "Error parsing form: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	uploads := make([]batch.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			http.Error(w, "Error retrieving file: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Error reading file: "+err.Error(), http.StatusInternalServerError)
			return
		}
		uploads = append(uploads, batch.Upload{Filename: h.Filename, Data: data})
	}

	addressee := r.FormValue("addressee")
	if addressee == "" {
		addressee = s.addressee
	}

	log := s.log.WithField("files", len(uploads))
	res := s.processor.Run(r.Context(), uploads, func(done, total int, filename string) {
		log.WithField("file", filename).Infof("processed %d/%d", done, total)
	})

	warnings := make([]string, 0, len(res.Warnings))
	for _, warn := range res.Warnings {
		warnings = append(warnings, warn.Error())
	}

	data := map[string]any{"Warnings": warnings}
	if !errors.Is(res.Err(), batch.ErrNoRows) {
		b := &Batch{
			Records:   res.Records,
			Rows:      report.Flatten(res.Records),
			Warnings:  warnings,
			Addressee: addressee,
		}
		id := s.store.Put(b)
		log.WithFields(logrus.Fields{"batch": id, "rows": len(b.Rows)}).Info("batch stored")
		data["Batch"] = b
		data["Total"] = report.Total(b.Rows)
	}

	s.render(w, http.StatusOK, "preview", data)
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) (*Batch, bool) {
	id := mux.Vars(r)["id"]
	b, ok := s.store.Get(id)
	if !ok {
		http.Error(w, "Batch not found or expired", http.StatusNotFound)
	}
	return b, ok
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, b.Rows); err != nil {
		s.log.WithError(err).WithField("batch", b.ID).Error("failed to write spreadsheet")
		http.Error(w, "Error writing spreadsheet", http.StatusInternalServerError)
		return
	}
	s.attach(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "saldos_"+b.ID[:8]+".xlsx", buf.Bytes())
}

func (s *Server) handleLetters(w http.ResponseWriter, r *http.Request) {
	b, ok := s.batch(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteLettersZip(&buf, b.Records, b.Addressee, s.now()); err != nil {
		s.log.WithError(err).WithField("batch", b.ID).Error("failed to write letters")
		http.Error(w, "Error writing letters", http.StatusInternalServerError)
		return
	}
	s.attach(w, "application/zip", "oficios_"+b.ID[:8]+".zip", buf.Bytes())
}

func (s *Server) attach(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}
