package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/homerun/internal/telemetry/metrics"
	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=activities_test

type activitiesService interface {
	Add(ctx context.Context, userID int, req NewActivityRequest) (*Activity, error)
	Replace(ctx context.Context, id, userID int, req NewActivityRequest) (*Activity, error)
	Get(ctx context.Context, id int) (*Activity, error)
	List(ctx context.Context, userID int, discipline Discipline) ([]Activity, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	service activitiesService
	metrics *metrics.Manager
}

func NewHandler(service activitiesService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req NewActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("new activity, unmarshal json params: %s", err)
		http.Error(w, "add activity failed", http.StatusBadRequest)
		return
	}

	activity, err := h.service.Add(ctx, userID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidMeasurement) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("new activity: %s", err)
		http.Error(w, "add activity failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterActivities.Inc()

	activityJson, err := json.Marshal(activity)
	if err != nil {
		log.Errorf("failed to marshal new activity: %s", err)
		http.Error(w, "error, failed to add new activity", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, activityJson, http.StatusCreated)
}

func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.replace")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid activity id", http.StatusBadRequest)
		return
	}
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req NewActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("replace activity %d, unmarshal json params: %s", id, err)
		http.Error(w, "replace activity failed", http.StatusBadRequest)
		return
	}

	activity, err := h.service.Replace(ctx, id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrActivityNotFound):
			http.Error(w, "activity not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidMeasurement):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("replace activity %d: %s", id, err)
			http.Error(w, "replace activity failed", http.StatusInternalServerError)
		}
		return
	}

	activityJson, err := json.Marshal(activity)
	if err != nil {
		log.Errorf("failed to marshal replaced activity: %s", err)
		http.Error(w, "error, failed to replace activity", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(activityJson))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid activity id", http.StatusBadRequest)
		return
	}

	activity, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("get activity %d: %s", id, err)
		http.Error(w, "get activity failed", http.StatusInternalServerError)
		return
	}

	activityJson, err := json.Marshal(activity)
	if err != nil {
		log.Errorf("failed to marshal activity %d: %s", id, err)
		http.Error(w, "get activity failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(activityJson))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.list")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	discipline := Discipline(vars["discipline"])

	found, err := h.service.List(ctx, userID, discipline)
	if err != nil {
		log.Errorf("list activities for user %d: %s", userID, err)
		http.Error(w, "list activities failed", http.StatusInternalServerError)
		return
	}

	foundJson, err := json.Marshal(found)
	if err != nil {
		log.Errorf("failed to marshal activities: %s", err)
		http.Error(w, "list activities failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(foundJson))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid activity id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete activity %d: %s", id, err)
		http.Error(w, "delete activity failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, strconv.Itoa(id))
}
