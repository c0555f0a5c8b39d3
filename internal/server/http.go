package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/report"
)

// NewRouter serves the telegram webhook, a health probe and read-only fund exports.
func NewRouter(webhook http.HandlerFunc, svc *report.Service) *mux.Router {
	r := mux.NewRouter()
	if webhook != nil {
		r.HandleFunc("/telegram/webhook", webhook).Methods(http.MethodPost)
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)

	f := r.PathPrefix("/fund").Subrouter()
	f.HandleFunc("/chart.png", bytesHandler("image/png", svc.Chart)).Methods(http.MethodGet)
	f.HandleFunc("/valuation.csv", bytesHandler("text/csv", svc.ValuationCSV)).Methods(http.MethodGet)
	f.HandleFunc("/metrics.csv", bytesHandler("text/csv", svc.MetricsCSV)).Methods(http.MethodGet)
	f.HandleFunc("/summary.md", textHandler(svc.SummaryMarkdown)).Methods(http.MethodGet)
	f.HandleFunc("/metrics.md", textHandler(svc.MetricsMarkdown)).Methods(http.MethodGet)
	r.Use(logRequests)
	return r
}

func bytesHandler(contentType string, render func() ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := render()
		if err != nil {
			log.WithError(err).WithField("path", r.URL.Path).Error("http: render failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

func textHandler(render func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(render()))
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{"method": r.Method, "path": r.URL.Path, "took": time.Since(start)}).Debug("http: request")
	})
}

func ListenAndServe(addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	return srv.ListenAndServe()
}
