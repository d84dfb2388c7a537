package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/telemetry/metrics"
	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=events_test

type eventsService interface {
	Add(ctx context.Context, userID int, req NewEventRequest) (*Event, error)
	Replace(ctx context.Context, id, userID int, req NewEventRequest) (*Event, error)
	Get(ctx context.Context, id int) (*Event, error)
	List(ctx context.Context, userID int, discipline activities.Discipline) ([]Event, error)
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	service eventsService
	metrics *metrics.Manager
}

func NewHandler(service eventsService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.add")
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

	var req NewEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("new event, unmarshal json params: %s", err)
		http.Error(w, "add event failed", http.StatusBadRequest)
		return
	}

	event, err := h.service.Add(ctx, userID, req)
	if err != nil {
		if errors.Is(err, activities.ErrInvalidMeasurement) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("new event: %s", err)
		http.Error(w, "add event failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterEvents.Inc()

	eventJson, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to marshal new event: %s", err)
		http.Error(w, "error, failed to add new event", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, eventJson, http.StatusCreated)
}

func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.replace")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req NewEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("replace event %d, unmarshal json params: %s", id, err)
		http.Error(w, "replace event failed", http.StatusBadRequest)
		return
	}

	event, err := h.service.Replace(ctx, id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			http.Error(w, "event not found", http.StatusNotFound)
		case errors.Is(err, activities.ErrInvalidMeasurement):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("replace event %d: %s", id, err)
			http.Error(w, "replace event failed", http.StatusInternalServerError)
		}
		return
	}

	eventJson, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to marshal replaced event: %s", err)
		http.Error(w, "error, failed to replace event", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(eventJson))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	event, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		log.Errorf("get event %d: %s", id, err)
		http.Error(w, "get event failed", http.StatusInternalServerError)
		return
	}

	eventJson, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to marshal event %d: %s", id, err)
		http.Error(w, "get event failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(eventJson))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.list")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	discipline := activities.Discipline(vars["discipline"])

	found, err := h.service.List(ctx, userID, discipline)
	if err != nil {
		log.Errorf("list events for user %d: %s", userID, err)
		http.Error(w, "list events failed", http.StatusInternalServerError)
		return
	}

	foundJson, err := json.Marshal(found)
	if err != nil {
		log.Errorf("failed to marshal events: %s", err)
		http.Error(w, "list events failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(foundJson))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete event %d: %s", id, err)
		http.Error(w, "delete event failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, strconv.Itoa(id))
}
