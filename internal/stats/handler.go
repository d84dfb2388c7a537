package stats

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.get")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	discipline := activities.Discipline(vars["discipline"])

	userStats, err := h.analyzer.Stats(ctx, userID, discipline)
	if err != nil {
		log.Errorf("get stats for user %d: %s", userID, err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(userStats)
	if err != nil {
		log.Errorf("failed to marshal stats: %s", err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(statsJson))
}
