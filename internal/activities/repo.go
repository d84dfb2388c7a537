package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/homerun/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrActivityNotFound = errors.New("activity not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add persists the activity together with its results, resolving (or
// lazily creating) the owning monthly and yearly buckets, all within
// one transaction.
func (r *Repo) Add(ctx context.Context, activity Activity) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.add")
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

	added, err := r.addTx(ctx, tx, activity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	span.SetAttributes(attribute.Int("activity.id", added.ID))
	return added, nil
}

// Replace implements the full replace semantic for activity edits:
// the stored activity is deleted and the new one created in its place,
// within one transaction, so derived fields and bucket membership are
// recomputed from scratch and no half-replaced state can be observed.
func (r *Repo) Replace(ctx context.Context, id int, activity Activity) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.replace")
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

	tag, err := tx.Exec(ctx, `DELETE FROM activity WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrActivityNotFound
	}

	added, err := r.addTx(ctx, tx, activity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return added, nil
}

func (r *Repo) addTx(ctx context.Context, tx pgx.Tx, activity Activity) (*Activity, error) {
	monthID, err := r.getOrCreateMonthly(ctx, tx, activity.UserID, activity.Discipline, MonthKey(activity.Date))
	if err != nil {
		return nil, fmt.Errorf("resolve monthly bucket: %w", err)
	}
	yearID, err := r.getOrCreateYearly(ctx, tx, activity.UserID, activity.Discipline, YearKey(activity.Date))
	if err != nil {
		return nil, fmt.Errorf("resolve yearly bucket: %w", err)
	}

	activity.MonthID = monthID
	activity.YearID = yearID

	err = tx.QueryRow(
		ctx,
		`INSERT INTO activity
				(name, discipline, description, date, environment, training_type, race_type,
				with_friends, distance_tag, user_id, month_id, year_id, event_id, training_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id;`,
		activity.Name, activity.Discipline, activity.Description, activity.Date,
		activity.Environment, activity.TrainingType, activity.RaceType,
		activity.WithFriends, activity.DistanceTag,
		activity.UserID, activity.MonthID, activity.YearID,
		activity.EventID, activity.TrainingID,
	).Scan(&activity.ID)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}

	for i := range activity.Results {
		result := &activity.Results[i]
		result.ActivityID = activity.ID
		err = tx.QueryRow(
			ctx,
			`INSERT INTO result
					(activity_id, distance, time, tracking_type, url, pace, speed, distance_tag)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id;`,
			result.ActivityID, result.Distance, result.Time, result.TrackingType,
			result.URL, result.Pace, result.Speed, result.DistanceTag,
		).Scan(&result.ID)
		if err != nil {
			return nil, fmt.Errorf("insert result: %w", err)
		}
	}

	return &activity, nil
}

func (r *Repo) getOrCreateMonthly(ctx context.Context, tx pgx.Tx, userID int, discipline Discipline, period string) (int, error) {
	var id int
	err := tx.QueryRow(
		ctx,
		`SELECT id FROM monthly WHERE user_id = $1 AND discipline = $2 AND period = $3;`,
		userID, discipline, period,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(
		ctx,
		`INSERT INTO monthly (user_id, discipline, period) VALUES ($1, $2, $3) RETURNING id;`,
		userID, discipline, period,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) getOrCreateYearly(ctx context.Context, tx pgx.Tx, userID int, discipline Discipline, period string) (int, error) {
	var id int
	err := tx.QueryRow(
		ctx,
		`SELECT id FROM yearly WHERE user_id = $1 AND discipline = $2 AND period = $3;`,
		userID, discipline, period,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(
		ctx,
		`INSERT INTO yearly (user_id, discipline, period) VALUES ($1, $2, $3) RETURNING id;`,
		userID, discipline, period,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, environment, training_type, race_type,
				with_friends, distance_tag, user_id, month_id, year_id, event_id, training_id
			FROM activity
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

	found, err := r.rows2activities(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrActivityNotFound
	}

	if err := r.attachResults(ctx, found); err != nil {
		return nil, err
	}
	return &found[0], nil
}

// ListAll returns all activities of a user in a discipline, together
// with their results, ordered by date then id (insertion order for
// same-day activities).
func (r *Repo) ListAll(ctx context.Context, userID int, discipline Discipline) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.String("discipline", string(discipline)))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, name, discipline, description, date, environment, training_type, race_type,
				with_friends, distance_tag, user_id, month_id, year_id, event_id, training_id
			FROM activity
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

	found, err := r.rows2activities(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2activities: %w", err)
	}

	if err := r.attachResults(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM activity WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *Repo) ListMonthlyBuckets(ctx context.Context, userID int, discipline Discipline) (_ []MonthlyBucket, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listmonthly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, period, discipline, user_id FROM monthly
			WHERE user_id = $1 AND discipline = $2
			ORDER BY id;`,
		userID, discipline,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	buckets := make([]MonthlyBucket, 0)
	for rows.Next() {
		var b MonthlyBucket
		if err := rows.Scan(&b.ID, &b.Period, &b.Discipline, &b.UserID); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func (r *Repo) ListYearlyBuckets(ctx context.Context, userID int, discipline Discipline) (_ []YearlyBucket, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listyearly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, period, discipline, user_id FROM yearly
			WHERE user_id = $1 AND discipline = $2
			ORDER BY id;`,
		userID, discipline,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	buckets := make([]YearlyBucket, 0)
	for rows.Next() {
		var b YearlyBucket
		if err := rows.Scan(&b.ID, &b.Period, &b.Discipline, &b.UserID); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func (r *Repo) rows2activities(rows pgx.Rows) ([]Activity, error) {
	activities := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Discipline, &a.Description, &a.Date,
			&a.Environment, &a.TrainingType, &a.RaceType,
			&a.WithFriends, &a.DistanceTag,
			&a.UserID, &a.MonthID, &a.YearID, &a.EventID, &a.TrainingID,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (r *Repo) attachResults(ctx context.Context, activities []Activity) error {
	if len(activities) == 0 {
		return nil
	}

	ids := make([]int, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}

	byActivity, err := r.resultsFor(ctx, ids)
	if err != nil {
		return err
	}

	for i := range activities {
		results := byActivity[activities[i].ID]
		if results == nil {
			results = []Result{}
		}
		activities[i].Results = results
	}
	return nil
}

func (r *Repo) resultsFor(ctx context.Context, activityIDs []int) (map[int][]Result, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, activity_id, distance, time, tracking_type, url, pace, speed, distance_tag
			FROM result
			WHERE activity_id = ANY($1)
			ORDER BY id;`,
		activityIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("result rows: %w", err)
	}

	byActivity := make(map[int][]Result)
	for rows.Next() {
		var res Result
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
