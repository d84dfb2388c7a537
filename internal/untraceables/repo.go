package untraceables

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/2beens/homerun/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, untraceable Untraceable) (_ *Untraceable, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if untraceable.Dates == nil {
		untraceable.Dates = []string{}
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO untraceable (name, description, dates, user_id)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		untraceable.Name, untraceable.Description, untraceable.Dates, untraceable.UserID,
	).Scan(&untraceable.ID)
	if err != nil {
		return nil, fmt.Errorf("insert untraceable: %w", err)
	}

	span.SetAttributes(attribute.Int("untraceable.id", untraceable.ID))
	return &untraceable, nil
}

// Update overlays the non-nil fields of the given update onto the
// stored untraceable.
func (r *Repo) Update(ctx context.Context, id int, update UntraceableUpdate) (_ *Untraceable, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	untraceable, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		untraceable.Name = *update.Name
	}
	if update.Description != nil {
		untraceable.Description = *update.Description
	}
	if update.Dates != nil {
		untraceable.Dates = *update.Dates
	}

	return r.save(ctx, untraceable)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Untraceable, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var u Untraceable
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, description, dates, user_id FROM untraceable WHERE id = $1;`,
		id,
	).Scan(&u.ID, &u.Name, &u.Description, &u.Dates, &u.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUntraceableNotFound
		}
		return nil, err
	}

	if u.Dates == nil {
		u.Dates = []string{}
	}
	return &u, nil
}

func (r *Repo) ListAll(ctx context.Context, userID int) (_ []Untraceable, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, description, dates, user_id FROM untraceable
			WHERE user_id = $1
			ORDER BY id;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	found := make([]Untraceable, 0)
	for rows.Next() {
		var u Untraceable
		if err := rows.Scan(&u.ID, &u.Name, &u.Description, &u.Dates, &u.UserID); err != nil {
			return nil, err
		}
		if u.Dates == nil {
			u.Dates = []string{}
		}
		found = append(found, u)
	}
	return found, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM untraceable WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUntraceableNotFound
	}
	return nil
}

// AddDate appends a day to the untraceable, rejecting days that are
// already on the list.
func (r *Repo) AddDate(ctx context.Context, id int, date string) (_ *Untraceable, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.adddate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.String("date", date))

	untraceable, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if slices.Contains(untraceable.Dates, date) {
		return nil, ErrDateAlreadyAssigned
	}

	untraceable.Dates = append(untraceable.Dates, date)
	return r.save(ctx, untraceable)
}

// RemoveDate drops a single day off the untraceable, the other days
// stay untouched.
func (r *Repo) RemoveDate(ctx context.Context, id int, date string) (_ *Untraceable, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.untraceables.removedate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id), attribute.String("date", date))

	untraceable, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	i := slices.Index(untraceable.Dates, date)
	if i < 0 {
		return nil, ErrDateNotFound
	}

	untraceable.Dates = slices.Delete(untraceable.Dates, i, i+1)
	return r.save(ctx, untraceable)
}

func (r *Repo) save(ctx context.Context, untraceable *Untraceable) (*Untraceable, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE untraceable
			SET name = $1, description = $2, dates = $3
			WHERE id = $4;`,
		untraceable.Name, untraceable.Description, untraceable.Dates, untraceable.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update untraceable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUntraceableNotFound
	}
	return untraceable, nil
}
