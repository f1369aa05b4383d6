package stopwatch

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/fitperso/pkg"
)

type Handler struct {
	stopwatch *Stopwatch
}

func NewHandler(stopwatch *Stopwatch) *Handler {
	return &Handler{
		stopwatch: stopwatch,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/timer", handler.HandleState).Methods("GET", "OPTIONS").Name("timer")
	router.HandleFunc("/timer/start", handler.HandleStart).Methods("POST", "OPTIONS").Name("timer-start")
	router.HandleFunc("/timer/pause", handler.HandlePause).Methods("POST", "OPTIONS").Name("timer-pause")
	router.HandleFunc("/timer/toggle", handler.HandleToggle).Methods("POST", "OPTIONS").Name("timer-toggle")
	router.HandleFunc("/timer/reset", handler.HandleReset).Methods("POST", "OPTIONS").Name("timer-reset")
}

func (handler *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.stopwatch.State(), http.StatusOK)
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.stopwatch.Start(), http.StatusOK)
}

func (handler *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.stopwatch.Pause(), http.StatusOK)
}

func (handler *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.stopwatch.Toggle(), http.StatusOK)
}

func (handler *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, handler.stopwatch.Reset(), http.StatusOK)
}
