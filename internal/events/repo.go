package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEventNotFound = errors.New("event not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	added, err := r.addTx(ctx, tx, event)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	span.SetAttributes(attribute.Int("event.id", added.ID))
	return added, nil
}

func (r *Repo) Replace(ctx context.Context, id int, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrEventNotFound
	}

	added, err := r.addTx(ctx, tx, event)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return added, nil
}

func (r *Repo) addTx(ctx context.Context, tx pgx.Tx, event Event) (*Event, error) {
	err := tx.QueryRow(
		ctx,
		`INSERT INTO event
				(name, discipline, description, date, distance, distance_tag,
				environment, race_type, user_id, training_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id;`,
		event.Name, event.Discipline, event.Description, event.Date,
		event.Distance, event.DistanceTag, event.Environment, event.RaceType,
		event.UserID, event.TrainingID,
	).Scan(&event.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if event.Goal != nil {
		event.Goal.EventID = event.ID
		err = tx.QueryRow(
			ctx,
			`INSERT INTO goal (event_id, time, pace, speed)
					VALUES ($1, $2, $3, $4)
				RETURNING id;`,
			event.Goal.EventID, event.Goal.Time, event.Goal.Pace, event.Goal.Speed,
		).Scan(&event.Goal.ID)
		if err != nil {
			return nil, fmt.Errorf("insert goal: %w", err)
		}
	}

	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, distance, distance_tag,
				environment, race_type, user_id, training_id
			FROM event
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

	found, err := r.rows2events(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrEventNotFound
	}

	if err := r.attachGoals(ctx, found); err != nil {
		return nil, err
	}
	if err := r.attachActivities(ctx, found); err != nil {
		return nil, err
	}
	return &found[0], nil
}

func (r *Repo) ListAll(ctx context.Context, userID int, discipline activities.Discipline) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, distance, distance_tag,
				environment, race_type, user_id, training_id
			FROM event
			WHERE user_id = $1 AND discipline = $2
			ORDER BY date, id;`,
		userID, discipline,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	found, err := r.rows2events(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2events: %w", err)
	}

	if err := r.attachGoals(ctx, found); err != nil {
		return nil, err
	}
	if err := r.attachActivities(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM event WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *Repo) rows2events(rows pgx.Rows) ([]Event, error) {
	events := make([]Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Discipline, &e.Description, &e.Date,
			&e.Distance, &e.DistanceTag, &e.Environment, &e.RaceType,
			&e.UserID, &e.TrainingID,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *Repo) attachGoals(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, event_id, time, pace, speed FROM goal WHERE event_id = ANY($1);`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("goal rows: %w", err)
	}

	byEvent := make(map[int]*Goal)
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.EventID, &g.Time, &g.Pace, &g.Speed); err != nil {
			return err
		}
		goal := g
		byEvent[g.EventID] = &goal
	}

	for i := range events {
		events[i].Goal = byEvent[events[i].ID]
	}
	return nil
}

// attachActivities fills in the back-link to the activity that
// fulfilled each event, when one was logged.
func (r *Repo) attachActivities(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, environment, training_type, race_type,
				with_friends, distance_tag, user_id, month_id, year_id, event_id, training_id
			FROM activity
			WHERE event_id = ANY($1);`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query event activities: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("event activity rows: %w", err)
	}

	byEvent := make(map[int]*activities.Activity)
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
		if a.EventID != nil {
			activity := a
			byEvent[*a.EventID] = &activity
		}
	}

	for i := range events {
		events[i].Activity = byEvent[events[i].ID]
	}
	return nil
}
