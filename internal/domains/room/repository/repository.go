package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	availabilityModel "lodge/internal/domains/availability/model"
	"lodge/internal/domains/room/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Search(ctx context.Context, start, end time.Time, nights int) ([]model.RoomAvailability, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Search returns the active rooms that can cover every night of the stay.
// A room qualifies only when the ledger has a row for each night and the
// minimum availability across those rows is positive. This is a plain read
// with no locking; the booking path re-checks under the room lock.
func (repo *repositoryImpl) Search(ctx context.Context, start, end time.Time, nights int) (rooms []model.RoomAvailability, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT r.%s, r.%s, r.%s, r.%s, r.%s, MIN(a.%s) AS min_available
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = TRUE AND a.%s >= :start_day AND a.%s < :end_day
		GROUP BY r.%s, r.%s, r.%s, r.%s, r.%s
		HAVING COUNT(a.%s) = :nights AND MIN(a.%s) > 0
		ORDER BY r.%s`,
		model.FieldID, model.FieldName, model.FieldDescription, model.FieldCapacity, model.FieldNightlyPrice,
		availabilityModel.FieldAvailableUnits,
		model.TableName,
		availabilityModel.TableName, availabilityModel.FieldRoomID, model.FieldID,
		model.FieldActive, availabilityModel.FieldDay, availabilityModel.FieldDay,
		model.FieldID, model.FieldName, model.FieldDescription, model.FieldCapacity, model.FieldNightlyPrice,
		availabilityModel.FieldDay, availabilityModel.FieldAvailableUnits,
		model.FieldName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"start_day": timezone.Day(start),
		"end_day":   timezone.Day(end),
		"nights":    nights,
	}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return rooms, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &rooms, args); err != nil {
		logger.ErrorWithStack(err)

		return rooms, fmt.Errorf("failed to search rooms: %w", err)
	}

	return rooms, nil
}
