// Package api serves the state of the running animations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/matt-g-everett/labeltx/gradient"
	"github.com/matt-g-everett/labeltx/stream"
	"go.uber.org/zap"
)

// Snapshotter reports the current animation of every subject.
type Snapshotter interface {
	Snapshot() []stream.SubjectState
}

type Api struct {
	states Snapshotter
	format stream.Formatting
	log    *zap.Logger
	mux    *http.ServeMux
}

func NewApi(states Snapshotter, format stream.Formatting, log *zap.Logger) *Api {
	a := new(Api)
	a.states = states
	a.format = format
	a.log = log
	a.mux = http.NewServeMux()
	a.mux.HandleFunc("/subjects", a.handleSubjects)
	a.mux.HandleFunc("/preview", a.handlePreview)
	return a
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	a.log.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) handleSubjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.writeJSON(w, a.states.Snapshot())
}

// handlePreview colours ?text= with the gradient in ?notation=.
func (a *Api) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	stops, err := gradient.ParseNotation(q.Get("notation"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	text := q.Get("text")
	if text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	a.writeJSON(w, stream.NewFrame(text, stops, a.format))
}

func (a *Api) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("write response", zap.Error(err))
	}
}
