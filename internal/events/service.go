package events

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=events

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	Replace(ctx context.Context, id int, event Event) (*Event, error)
	Get(ctx context.Context, id int) (*Event, error)
	ListAll(ctx context.Context, userID int, discipline activities.Discipline) ([]Event, error)
	Delete(ctx context.Context, id int) error
}

type NewGoalRequest struct {
	Time int `json:"time"`
}

type NewEventRequest struct {
	Name        string                `json:"name"`
	Discipline  activities.Discipline `json:"discipline"`
	Description string                `json:"description,omitempty"`
	Date        time.Time             `json:"date"`
	Distance    float64               `json:"distance"`
	Environment string                `json:"environment,omitempty"`
	RaceType    activities.RaceType   `json:"raceType,omitempty"`
	TrainingID  *int                  `json:"trainingId,omitempty"`
	Goal        *NewGoalRequest       `json:"goal,omitempty"`
}

type Service struct {
	repo eventsRepo
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Add(ctx context.Context, userID int, req NewEventRequest) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	event, err := s.buildEvent(userID, req)
	if err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, *event)
}

// Replace swaps the stored event for a rebuilt one, like activity
// edits: the distance tag and goal pace/speed are derived anew from
// the incoming fields.
func (s *Service) Replace(ctx context.Context, id, userID int, req NewEventRequest) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	event, err := s.buildEvent(userID, req)
	if err != nil {
		return nil, err
	}
	return s.repo.Replace(ctx, id, *event)
}

func (s *Service) Get(ctx context.Context, id int) (*Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, userID int, discipline activities.Discipline) ([]Event, error) {
	return s.repo.ListAll(ctx, userID, discipline)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) buildEvent(userID int, req NewEventRequest) (*Event, error) {
	event := &Event{
		Name:        req.Name,
		Discipline:  req.Discipline,
		Description: req.Description,
		Date:        req.Date,
		Distance:    req.Distance,
		DistanceTag: activities.ClassifyDistance(req.Distance, req.Discipline),
		Environment: req.Environment,
		RaceType:    req.RaceType,
		UserID:      userID,
		TrainingID:  req.TrainingID,
	}

	if req.Goal != nil {
		pace, err := activities.Pace(req.Goal.Time, req.Distance)
		if err != nil {
			return nil, fmt.Errorf("goal [time %d, distance %f]: %w", req.Goal.Time, req.Distance, err)
		}
		speed, err := activities.Speed(req.Goal.Time, req.Distance)
		if err != nil {
			return nil, fmt.Errorf("goal [time %d, distance %f]: %w", req.Goal.Time, req.Distance, err)
		}
		event.Goal = &Goal{
			Time:  req.Goal.Time,
			Pace:  pace,
			Speed: speed,
		}
	}

	return event, nil
}
