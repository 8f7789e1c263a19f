package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/availability/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"
)

// Availability is the inventory ledger. Every mutation is a conditional
// single-statement UPDATE whose guard is evaluated by the database, so two
// concurrent writers can never push a counter below zero or above total.
type Availability interface {
	EnsureRange(ctx context.Context, models []model.AvailabilityDay) error
	TryDecrement(ctx context.Context, roomID string, day time.Time, qty int) (bool, error)
	Increment(ctx context.Context, roomID string, day time.Time, qty int) (bool, error)
	DecrementRange(ctx context.Context, roomID string, days []time.Time, qty int) (bool, time.Time, error)
	Summarize(ctx context.Context, roomID string, days []time.Time) (model.RangeSummary, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AvailabilityDay, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AvailabilityDay]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Availability {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AvailabilityDay](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// EnsureRange inserts missing ledger rows for a window. Rows that already
// exist keep their counters.
func (repo *repositoryImpl) EnsureRange(ctx context.Context, models []model.AvailabilityDay) error {
	return repo.InsertBulk(ctx, models, true) //nolint:wrapcheck
}

// TryDecrement takes qty units from one room-day. It reports false when the
// day has fewer than qty units left; the row is then untouched.
func (repo *repositoryImpl) TryDecrement(ctx context.Context, roomID string, day time.Time, qty int) (ok bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.TryDecrement")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`UPDATE %s
		SET %s = %s - :qty, modified_at = :modified_at
		WHERE %s = :room_id AND %s = :day AND %s >= :qty`,
		model.TableName,
		model.FieldAvailableUnits, model.FieldAvailableUnits,
		model.FieldRoomID, model.FieldDay, model.FieldAvailableUnits,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"room_id":     roomID,
		"day":         timezone.Day(day),
		"qty":         qty,
		"modified_at": timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to decrement availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows == 1, nil
}

// Increment gives qty units back to one room-day. It refuses to push the
// counter past total_units and reports false so the caller can flag the
// inconsistency instead of hiding it.
func (repo *repositoryImpl) Increment(ctx context.Context, roomID string, day time.Time, qty int) (ok bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.Increment")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`UPDATE %s
		SET %s = %s + :qty, modified_at = :modified_at
		WHERE %s = :room_id AND %s = :day AND %s + :qty <= %s`,
		model.TableName,
		model.FieldAvailableUnits, model.FieldAvailableUnits,
		model.FieldRoomID, model.FieldDay, model.FieldAvailableUnits, model.FieldTotalUnits,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"room_id":     roomID,
		"day":         timezone.Day(day),
		"qty":         qty,
		"modified_at": timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to increment availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows == 1, nil
}

// DecrementRange takes qty units from every day of the set inside one
// database transaction. Either all days have enough units and the whole set
// is decremented, or nothing is. On failure it also reports the first day
// that could not cover the quantity.
func (repo *repositoryImpl) DecrementRange(ctx context.Context, roomID string, days []time.Time, qty int) (ok bool, failingDay time.Time, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.DecrementRange")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(days) == 0 {
		return true, failingDay, nil
	}

	inClause, args := dayArgs(days)
	args["room_id"] = roomID
	args["qty"] = qty
	args["modified_at"] = timezone.Now()

	query := fmt.Sprintf(`UPDATE %s
		SET %s = %s - :qty, modified_at = :modified_at
		WHERE %s = :room_id AND %s IN (%s) AND %s >= :qty`,
		model.TableName,
		model.FieldAvailableUnits, model.FieldAvailableUnits,
		model.FieldRoomID, model.FieldDay, inClause, model.FieldAvailableUnits,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, failingDay, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := tx.NamedExecContext(ctx, query, args)
	if err != nil {
		_ = tx.Rollback()
		logger.ErrorWithStack(err)

		return false, failingDay, fmt.Errorf("failed to decrement availability range: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		logger.ErrorWithStack(err)

		return false, failingDay, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rows != int64(len(days)) {
		if err = tx.Rollback(); err != nil {
			logger.ErrorWithStack(err)

			return false, failingDay, fmt.Errorf("failed to roll back transaction: %w", err)
		}

		failingDay, err = repo.findFirstShortDay(ctx, roomID, days, qty)

		return false, failingDay, err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return false, failingDay, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, failingDay, nil
}

// findFirstShortDay locates the earliest day of the set that cannot cover
// qty units. A day with no ledger row at all counts as short.
func (repo *repositoryImpl) findFirstShortDay(ctx context.Context, roomID string, days []time.Time, qty int) (time.Time, error) {
	inClause, args := dayArgs(days)
	args["room_id"] = roomID
	args["qty"] = qty

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE %s = :room_id AND %s IN (%s) AND %s < :qty
		ORDER BY %s LIMIT 1`,
		model.FieldDay, model.TableName,
		model.FieldRoomID, model.FieldDay, inClause, model.FieldAvailableUnits,
		model.FieldDay,
	)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return time.Time{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepare.Close()

	var shortDay time.Time
	if err = prepare.GetContext(ctx, &shortDay, args); err != nil {
		// No under-provisioned row means a day is missing from the ledger
		// entirely; report the first day of the set.
		return timezone.Day(days[0]), nil
	}

	return shortDay, nil
}

// Summarize returns the minimum availability and the number of covered
// days over a day-set.
func (repo *repositoryImpl) Summarize(ctx context.Context, roomID string, days []time.Time) (summary model.RangeSummary, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.Summarize")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(days) == 0 {
		return summary, nil
	}

	inClause, args := dayArgs(days)
	args["room_id"] = roomID

	query := fmt.Sprintf(`SELECT COALESCE(MIN(%s), 0) AS min_available, COUNT(*) AS covered_days
		FROM %s WHERE %s = :room_id AND %s IN (%s)`,
		model.FieldAvailableUnits,
		model.TableName, model.FieldRoomID, model.FieldDay, inClause,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return summary, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, &summary, args); err != nil {
		logger.ErrorWithStack(err)

		return summary, fmt.Errorf("failed to summarize availability: %w", err)
	}

	return summary, nil
}

func dayArgs(days []time.Time) (string, map[string]any) {
	args := make(map[string]any, len(days))
	named := make([]string, len(days))

	for i, day := range days {
		argName := fmt.Sprintf("day_%d", i)
		args[argName] = timezone.Day(day)
		named[i] = ":" + argName
	}

	return strings.Join(named, ", "), args
}
