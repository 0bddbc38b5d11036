package httptransport

import (
	"context"
	"net/http"

	"surveyanalytics/internal/httpx"

	"github.com/gorilla/mux"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Analytics AnalyticsServices
	Exports   ExportServices
	DB        Pinger
	Metrics   http.Handler
	Recorder  httpx.HTTPRecorder
	JWTSecret string
}

func Router(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(httpx.RequestID, httpx.Logging(deps.Recorder))

	router.HandleFunc("/healthz", healthz(deps.DB)).Methods(http.MethodGet)
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	handlers := NewAnalyticsHandlers(deps.Analytics, deps.Exports)

	api := router.PathPrefix("/api").Subrouter()
	analytics := api.PathPrefix("/analytics").Subrouter()
	analytics.Use(httpx.Protected(deps.JWTSecret))
	analytics.HandleFunc("/survey/{id}", handlers.SurveyAnalytics).Methods(http.MethodGet)
	analytics.HandleFunc("/question/{id}", handlers.QuestionAnalytics).Methods(http.MethodGet)
	analytics.HandleFunc("/export/{id}", handlers.Export).Methods(http.MethodGet)

	return router
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
