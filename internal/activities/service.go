package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/homerun/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=activities

type activitiesRepo interface {
	Add(ctx context.Context, activity Activity) (*Activity, error)
	Replace(ctx context.Context, id int, activity Activity) (*Activity, error)
	Get(ctx context.Context, id int) (*Activity, error)
	ListAll(ctx context.Context, userID int, discipline Discipline) ([]Activity, error)
	Delete(ctx context.Context, id int) error
}

// NewResultRequest is a raw measurement as it comes from the client.
// Pace, speed and the distance tag are derived here, never accepted
// from the outside.
type NewResultRequest struct {
	Distance     float64      `json:"distance"`
	Time         int          `json:"time"`
	TrackingType TrackingType `json:"trackingType"`
	URL          string       `json:"url,omitempty"`
}

type NewActivityRequest struct {
	Name         string             `json:"name"`
	Discipline   Discipline         `json:"discipline"`
	Description  string             `json:"description,omitempty"`
	Date         time.Time          `json:"date"`
	Environment  string             `json:"environment,omitempty"`
	TrainingType TrainingType       `json:"trainingType,omitempty"`
	RaceType     RaceType           `json:"raceType,omitempty"`
	WithFriends  bool               `json:"withFriends"`
	EventID      *int               `json:"eventId,omitempty"`
	TrainingID   *int               `json:"trainingId,omitempty"`
	Results      []NewResultRequest `json:"results"`
}

type Service struct {
	repo activitiesRepo
}

func NewService(repo activitiesRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// Add validates the raw measurements, derives per result pace, speed
// and distance tag, tags the activity from its authoritative result,
// and persists everything. Validation failures abort before any write.
func (s *Service) Add(ctx context.Context, userID int, req NewActivityRequest) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.activities.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	activity, err := s.buildActivity(userID, req)
	if err != nil {
		return nil, err
	}

	return s.repo.Add(ctx, *activity)
}

// Replace rebuilds the activity from the new fields and swaps it for
// the stored one. Editing is a full replace, not a partial patch,
// since the derived fields depend on several inputs jointly.
func (s *Service) Replace(ctx context.Context, id, userID int, req NewActivityRequest) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.activities.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	activity, err := s.buildActivity(userID, req)
	if err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, id, *activity)
}

func (s *Service) Get(ctx context.Context, id int) (*Activity, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, userID int, discipline Discipline) ([]Activity, error) {
	return s.repo.ListAll(ctx, userID, discipline)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) buildActivity(userID int, req NewActivityRequest) (*Activity, error) {
	results := make([]Result, 0, len(req.Results))
	for _, resultReq := range req.Results {
		pace, err := Pace(resultReq.Time, resultReq.Distance)
		if err != nil {
			return nil, fmt.Errorf("result [distance %f, time %d]: %w", resultReq.Distance, resultReq.Time, err)
		}
		speed, err := Speed(resultReq.Time, resultReq.Distance)
		if err != nil {
			return nil, fmt.Errorf("result [distance %f, time %d]: %w", resultReq.Distance, resultReq.Time, err)
		}
		results = append(results, Result{
			Distance:     resultReq.Distance,
			Time:         resultReq.Time,
			TrackingType: resultReq.TrackingType,
			URL:          resultReq.URL,
			Pace:         pace,
			Speed:        speed,
			DistanceTag:  ClassifyDistance(resultReq.Distance, req.Discipline),
		})
	}

	activity := &Activity{
		Name:         req.Name,
		Discipline:   req.Discipline,
		Description:  req.Description,
		Date:         req.Date,
		Environment:  req.Environment,
		TrainingType: req.TrainingType,
		RaceType:     req.RaceType,
		WithFriends:  req.WithFriends,
		UserID:       userID,
		EventID:      req.EventID,
		TrainingID:   req.TrainingID,
		Results:      results,
	}
	activity.DistanceTag = activity.DistanceTagFromResults()

	return activity, nil
}
