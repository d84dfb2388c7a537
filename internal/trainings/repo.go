package trainings

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/events"
	"github.com/2beens/homerun/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrTrainingNotFound = errors.New("training not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, training Training) (_ *Training, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainings.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO training
				(name, discipline, description, begin_date, end_date, user_id)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		training.Name, training.Discipline, training.Description,
		training.BeginDate, training.EndDate, training.UserID,
	).Scan(&training.ID)
	if err != nil {
		return nil, fmt.Errorf("insert training: %w", err)
	}

	training.Events = []events.Event{}
	training.Activities = []activities.Activity{}

	span.SetAttributes(attribute.Int("training.id", training.ID))
	return &training, nil
}

// Update changes the training fields in place. Member events and
// activities keep their links, nothing is derived from the fields
// being changed.
func (r *Repo) Update(ctx context.Context, id int, training Training) (_ *Training, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainings.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training
			SET name = $1, discipline = $2, description = $3, begin_date = $4, end_date = $5
			WHERE id = $6;`,
		training.Name, training.Discipline, training.Description,
		training.BeginDate, training.EndDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update training: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTrainingNotFound
	}

	return r.Get(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Training, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, name, discipline, description, begin_date, end_date, user_id
			FROM training
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found, err := r.rows2trainings(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrTrainingNotFound
	}

	if err := r.attachEvents(ctx, found); err != nil {
		return nil, err
	}
	if err := r.attachActivities(ctx, found); err != nil {
		return nil, err
	}
	return &found[0], nil
}

func (r *Repo) ListAll(ctx context.Context, userID int, discipline activities.Discipline) (_ []Training, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainings.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, name, discipline, description, begin_date, end_date, user_id
			FROM training
			WHERE user_id = $1 AND discipline = $2
			ORDER BY begin_date, id;`,
		userID, discipline,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	found, err := r.rows2trainings(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2trainings: %w", err)
	}

	if err := r.attachEvents(ctx, found); err != nil {
		return nil, err
	}
	if err := r.attachActivities(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainings.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM training WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTrainingNotFound
	}
	return nil
}

func (r *Repo) rows2trainings(rows pgx.Rows) ([]Training, error) {
	trainings := make([]Training, 0)
	for rows.Next() {
		var t Training
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Discipline, &t.Description,
			&t.BeginDate, &t.EndDate, &t.UserID,
		); err != nil {
			return nil, err
		}
		trainings = append(trainings, t)
	}
	return trainings, nil
}

func (r *Repo) attachEvents(ctx context.Context, trainings []Training) error {
	if len(trainings) == 0 {
		return nil
	}

	ids := make([]int, 0, len(trainings))
	for _, t := range trainings {
		ids = append(ids, t.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, distance, distance_tag,
				environment, race_type, user_id, training_id
			FROM event
			WHERE training_id = ANY($1)
			ORDER BY date, id;`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query training events: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("training event rows: %w", err)
	}

	byTraining := make(map[int][]events.Event)
	for rows.Next() {
		var e events.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Discipline, &e.Description, &e.Date,
			&e.Distance, &e.DistanceTag, &e.Environment, &e.RaceType,
			&e.UserID, &e.TrainingID,
		); err != nil {
			return err
		}
		if e.TrainingID != nil {
			byTraining[*e.TrainingID] = append(byTraining[*e.TrainingID], e)
		}
	}

	for i := range trainings {
		trainings[i].Events = byTraining[trainings[i].ID]
		if trainings[i].Events == nil {
			trainings[i].Events = []events.Event{}
		}
	}
	return nil
}

func (r *Repo) attachActivities(ctx context.Context, trainings []Training) error {
	if len(trainings) == 0 {
		return nil
	}

	ids := make([]int, 0, len(trainings))
	for _, t := range trainings {
		ids = append(ids, t.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, environment, training_type, race_type,
				with_friends, distance_tag, user_id, month_id, year_id, event_id, training_id
			FROM activity
			WHERE training_id = ANY($1)
			ORDER BY date, id;`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query training activities: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("training activity rows: %w", err)
	}

	byTraining := make(map[int][]activities.Activity)
	activityIDs := make([]int, 0)
	for rows.Next() {
		var a activities.Activity
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Discipline, &a.Description, &a.Date,
			&a.Environment, &a.TrainingType, &a.RaceType,
			&a.WithFriends, &a.DistanceTag,
			&a.UserID, &a.MonthID, &a.YearID, &a.EventID, &a.TrainingID,
		); err != nil {
			return err
		}
		if a.TrainingID != nil {
			byTraining[*a.TrainingID] = append(byTraining[*a.TrainingID], a)
			activityIDs = append(activityIDs, a.ID)
		}
	}

	results, err := r.resultsFor(ctx, activityIDs)
	if err != nil {
		return err
	}
	for trainingID, members := range byTraining {
		for i := range members {
			members[i].Results = results[members[i].ID]
			if members[i].Results == nil {
				members[i].Results = []activities.Result{}
			}
		}
		byTraining[trainingID] = members
	}

	for i := range trainings {
		trainings[i].Activities = byTraining[trainings[i].ID]
		if trainings[i].Activities == nil {
			trainings[i].Activities = []activities.Activity{}
		}
	}
	return nil
}

func (r *Repo) resultsFor(ctx context.Context, activityIDs []int) (map[int][]activities.Result, error) {
	if len(activityIDs) == 0 {
		return map[int][]activities.Result{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, activity_id, distance, time, tracking_type, url, pace, speed, distance_tag
			FROM result
			WHERE activity_id = ANY($1)
			ORDER BY id;`,
		activityIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query training activity results: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("training activity result rows: %w", err)
	}

	byActivity := make(map[int][]activities.Result)
	for rows.Next() {
		var res activities.Result
		if err := rows.Scan(
			&res.ID, &res.ActivityID, &res.Distance, &res.Time, &res.TrackingType,
			&res.URL, &res.Pace, &res.Speed, &res.DistanceTag,
		); err != nil {
			return nil, err
		}
		byActivity[res.ActivityID] = append(byActivity[res.ActivityID], res)
	}
	return byActivity, nil
}
