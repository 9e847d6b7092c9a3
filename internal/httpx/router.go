package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/clinicpulse/internal/ingest"
	"github.com/AngelCh415/clinicpulse/internal/report"
	"github.com/AngelCh415/clinicpulse/internal/store"
	"github.com/AngelCh415/clinicpulse/internal/utils"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

type Deps struct {
	Log      *slog.Logger
	ETL      *ingest.ETL
	Reports  *report.Service
	Store    *store.MemoryStore
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Store.LoadedAt().IsZero() {
			http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})

	if d.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("since")
		var since *time.Time
		if q != "" {
			t, err := time.Parse(window.DateLayout, q)
			if err != nil {
				http.Error(w, "bad since (YYYY-MM-DD)", 400)
				return
			}
			since = &t
		}
		if err := d.ETL.Run(r.Context(), since); err != nil {
			status := 502
			if errors.Is(err, ingest.ErrSourceNotConfigured) {
				status = 503
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.WriteHeader(202)
		w.Write([]byte("ingest done"))
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		sum, err := d.Reports.QuerySummary(r.URL.Query())
		if err != nil {
			http.Error(w, "bad date range (YYYY-MM-DD)", 400)
			return
		}
		if err := d.ETL.ExportSummary(r.Context(), sum); err != nil {
			status := 502
			if errors.Is(err, ingest.ErrSinkNotConfigured) {
				status = 503
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, map[string]any{"exported": true, "from": sum.From, "to": sum.To})
	})

	mux.Get("/summary", func(w http.ResponseWriter, r *http.Request) {
		sum, err := d.Reports.QuerySummary(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, sum)
	})

	mux.Get("/goals", func(w http.ResponseWriter, r *http.Request) {
		rows, err := d.Reports.QueryGoals(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, rows)
	})

	mux.Get("/notifications", func(w http.ResponseWriter, r *http.Request) {
		rows, err := d.Reports.QueryNotifications(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, rows)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
