package trainings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=trainings_test

type trainingsRepo interface {
	Add(ctx context.Context, training Training) (*Training, error)
	Update(ctx context.Context, id int, training Training) (*Training, error)
	Get(ctx context.Context, id int) (*Training, error)
	ListAll(ctx context.Context, userID int, discipline activities.Discipline) ([]Training, error)
	Delete(ctx context.Context, id int) error
}

type NewTrainingRequest struct {
	Name        string                `json:"name"`
	Discipline  activities.Discipline `json:"discipline"`
	Description string                `json:"description,omitempty"`
	BeginDate   time.Time             `json:"beginDate"`
	EndDate     time.Time             `json:"endDate"`
}

type Handler struct {
	repo trainingsRepo
}

func NewHandler(repo trainingsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainings.add")
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

	var req NewTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("new training, unmarshal json params: %s", err)
		http.Error(w, "add training failed", http.StatusBadRequest)
		return
	}

	training, err := h.repo.Add(ctx, Training{
		Name:        req.Name,
		Discipline:  req.Discipline,
		Description: req.Description,
		BeginDate:   req.BeginDate,
		EndDate:     req.EndDate,
		UserID:      userID,
	})
	if err != nil {
		log.Errorf("new training: %s", err)
		http.Error(w, "add training failed", http.StatusInternalServerError)
		return
	}

	trainingJson, err := json.Marshal(training)
	if err != nil {
		log.Errorf("failed to marshal new training: %s", err)
		http.Error(w, "error, failed to add new training", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, trainingJson, http.StatusCreated)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainings.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid training id", http.StatusBadRequest)
		return
	}

	var req NewTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update training %d, unmarshal json params: %s", id, err)
		http.Error(w, "update training failed", http.StatusBadRequest)
		return
	}

	training, err := h.repo.Update(ctx, id, Training{
		Name:        req.Name,
		Discipline:  req.Discipline,
		Description: req.Description,
		BeginDate:   req.BeginDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if errors.Is(err, ErrTrainingNotFound) {
			http.Error(w, "training not found", http.StatusNotFound)
			return
		}
		log.Errorf("update training %d: %s", id, err)
		http.Error(w, "update training failed", http.StatusInternalServerError)
		return
	}

	trainingJson, err := json.Marshal(training)
	if err != nil {
		log.Errorf("failed to marshal updated training: %s", err)
		http.Error(w, "error, failed to update training", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(trainingJson))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainings.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid training id", http.StatusBadRequest)
		return
	}

	training, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTrainingNotFound) {
			http.Error(w, "training not found", http.StatusNotFound)
			return
		}
		log.Errorf("get training %d: %s", id, err)
		http.Error(w, "get training failed", http.StatusInternalServerError)
		return
	}

	trainingJson, err := json.Marshal(training)
	if err != nil {
		log.Errorf("failed to marshal training %d: %s", id, err)
		http.Error(w, "get training failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(trainingJson))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainings.list")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	discipline := activities.Discipline(vars["discipline"])

	found, err := h.repo.ListAll(ctx, userID, discipline)
	if err != nil {
		log.Errorf("list trainings for user %d: %s", userID, err)
		http.Error(w, "list trainings failed", http.StatusInternalServerError)
		return
	}

	foundJson, err := json.Marshal(found)
	if err != nil {
		log.Errorf("failed to marshal trainings: %s", err)
		http.Error(w, "list trainings failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(foundJson))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainings.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid training id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTrainingNotFound) {
			http.Error(w, "training not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete training %d: %s", id, err)
		http.Error(w, "delete training failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, strconv.Itoa(id))
}
