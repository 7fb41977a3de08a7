package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/models"
)

// defaultActivityLimit caps unbounded listings.
const defaultActivityLimit = 100

// activityRepository is the SQL-backed implementation of
// [ActivityRepository]: an append-only audit trail plus a filtered read
// side for the activity view.
type activityRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewActivityRepository constructs an [ActivityRepository] backed by the
// provided database connection and logger.
func NewActivityRepository(db *DB, logger *logger.Logger) ActivityRepository {
	logger.Debug().Msg("creating activity repository")
	return &activityRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends one activity entry. The caller decides whether a failure is
// fatal; the auth core swallows it.
func (r *activityRepository) Record(ctx context.Context, entry models.ActivityEntry) error {
	log := logger.FromContext(ctx)

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := r.db.builder.
		Insert("activity_log").
		Columns("user_id", "action", "entity_type", "entity_id", "description", "ip", "user_agent", "created_at").
		Values(entry.UserID, entry.Action, entry.EntityType, entry.EntityID, entry.Description, entry.IP, entry.UserAgent, createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*activityRepository.Record").Msg("error: activity insert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// List returns entries matching filter, newest first. The WHERE clause is
// assembled dynamically from the non-zero filter fields.
func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.ActivityEntry, error) {
	log := logger.FromContext(ctx)

	builder := r.db.builder.
		Select("id", "user_id", "action", "entity_type", "entity_id", "description", "ip", "user_agent", "created_at").
		From("activity_log").
		OrderBy("created_at DESC, id DESC")

	if filter.UserID != nil {
		builder = builder.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": filter.Action})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.Since})
	}
	if !filter.Until.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": filter.Until})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultActivityLimit
	}
	builder = builder.Limit(limit)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building sql query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*activityRepository.List").Msg("error: activity query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var entry models.ActivityEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action,
			&entry.EntityType, &entry.EntityID, &entry.Description,
			&entry.IP, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			log.Err(err).Str("func", "*activityRepository.List").Msg("error: scanning error")
			return nil, fmt.Errorf("unexpected DB error: %w", err)
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return entries, nil
}
