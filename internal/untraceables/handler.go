package untraceables

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=untraceables_test

type untraceablesRepo interface {
	Add(ctx context.Context, untraceable Untraceable) (*Untraceable, error)
	Update(ctx context.Context, id int, update UntraceableUpdate) (*Untraceable, error)
	Get(ctx context.Context, id int) (*Untraceable, error)
	ListAll(ctx context.Context, userID int) ([]Untraceable, error)
	Delete(ctx context.Context, id int) error
	AddDate(ctx context.Context, id int, date string) (*Untraceable, error)
	RemoveDate(ctx context.Context, id int, date string) (*Untraceable, error)
}

type NewUntraceableRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Dates       []string `json:"dates"`
}

type Handler struct {
	repo untraceablesRepo
}

func NewHandler(repo untraceablesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.add")
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

	var req NewUntraceableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("new untraceable, unmarshal json params: %s", err)
		http.Error(w, "add untraceable failed", http.StatusBadRequest)
		return
	}

	for _, date := range req.Dates {
		if !validDate(date) {
			http.Error(w, "invalid date: "+date, http.StatusBadRequest)
			return
		}
	}

	untraceable, err := h.repo.Add(ctx, Untraceable{
		Name:        req.Name,
		Description: req.Description,
		Dates:       req.Dates,
		UserID:      userID,
	})
	if err != nil {
		log.Errorf("new untraceable: %s", err)
		http.Error(w, "add untraceable failed", http.StatusInternalServerError)
		return
	}

	untraceableJson, err := json.Marshal(untraceable)
	if err != nil {
		log.Errorf("failed to marshal new untraceable: %s", err)
		http.Error(w, "error, failed to add new untraceable", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, untraceableJson, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid untraceable id", http.StatusBadRequest)
		return
	}

	var update UntraceableUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update untraceable %d, unmarshal json params: %s", id, err)
		http.Error(w, "update untraceable failed", http.StatusBadRequest)
		return
	}

	if update.Dates != nil {
		for _, date := range *update.Dates {
			if !validDate(date) {
				http.Error(w, "invalid date: "+date, http.StatusBadRequest)
				return
			}
		}
	}

	untraceable, err := h.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrUntraceableNotFound) {
			http.Error(w, "untraceable not found", http.StatusNotFound)
			return
		}
		log.Errorf("update untraceable %d: %s", id, err)
		http.Error(w, "update untraceable failed", http.StatusInternalServerError)
		return
	}

	h.writeUntraceable(w, untraceable)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid untraceable id", http.StatusBadRequest)
		return
	}

	untraceable, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUntraceableNotFound) {
			http.Error(w, "untraceable not found", http.StatusNotFound)
			return
		}
		log.Errorf("get untraceable %d: %s", id, err)
		http.Error(w, "get untraceable failed", http.StatusInternalServerError)
		return
	}

	h.writeUntraceable(w, untraceable)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.list")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	found, err := h.repo.ListAll(ctx, userID)
	if err != nil {
		log.Errorf("list untraceables for user %d: %s", userID, err)
		http.Error(w, "list untraceables failed", http.StatusInternalServerError)
		return
	}

	foundJson, err := json.Marshal(found)
	if err != nil {
		log.Errorf("failed to marshal untraceables: %s", err)
		http.Error(w, "list untraceables failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(foundJson))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid untraceable id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUntraceableNotFound) {
			http.Error(w, "untraceable not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete untraceable %d: %s", id, err)
		http.Error(w, "delete untraceable failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, strconv.Itoa(id))
}

func (h *Handler) HandleAddDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.adddate")
	defer span.End()

	id, date, ok := h.dateParams(w, r)
	if !ok {
		return
	}

	untraceable, err := h.repo.AddDate(ctx, id, date)
	if err != nil {
		switch {
		case errors.Is(err, ErrUntraceableNotFound):
			http.Error(w, "untraceable not found", http.StatusNotFound)
		case errors.Is(err, ErrDateAlreadyAssigned):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("add date to untraceable %d: %s", id, err)
			http.Error(w, "add date failed", http.StatusInternalServerError)
		}
		return
	}

	h.writeUntraceable(w, untraceable)
}

func (h *Handler) HandleRemoveDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.untraceables.removedate")
	defer span.End()

	id, date, ok := h.dateParams(w, r)
	if !ok {
		return
	}

	untraceable, err := h.repo.RemoveDate(ctx, id, date)
	if err != nil {
		switch {
		case errors.Is(err, ErrUntraceableNotFound):
			http.Error(w, "untraceable not found", http.StatusNotFound)
		case errors.Is(err, ErrDateNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("remove date from untraceable %d: %s", id, err)
			http.Error(w, "remove date failed", http.StatusInternalServerError)
		}
		return
	}

	h.writeUntraceable(w, untraceable)
}

func (h *Handler) dateParams(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid untraceable id", http.StatusBadRequest)
		return 0, "", false
	}

	date := vars["date"]
	if !validDate(date) {
		http.Error(w, "invalid date: "+date, http.StatusBadRequest)
		return 0, "", false
	}
	return id, date, true
}

func (h *Handler) writeUntraceable(w http.ResponseWriter, untraceable *Untraceable) {
	untraceableJson, err := json.Marshal(untraceable)
	if err != nil {
		log.Errorf("failed to marshal untraceable %d: %s", untraceable.ID, err)
		http.Error(w, "marshal untraceable failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(untraceableJson))
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
