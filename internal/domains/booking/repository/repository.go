package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	MarkCancelled(ctx context.Context, id, user, reason string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// MarkCancelled flips a confirmed booking to cancelled. The status guard in
// the WHERE clause makes the flip a compare-and-set: only one caller ever
// sees true, so the availability restoration that follows runs at most once.
func (repo *repositoryImpl) MarkCancelled(ctx context.Context, id, user, reason string, at time.Time) (ok bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.MarkCancelled")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`UPDATE %s
		SET %s = :cancelled, %s = :at, %s = :reason, modified_at = :at, modified_by = :user
		WHERE %s = :id AND %s = :confirmed`,
		model.TableName,
		model.FieldStatus, model.FieldCancelledAt, model.FieldCancelReason,
		model.FieldID, model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"id":        id,
		"user":      user,
		"reason":    reason,
		"at":        at,
		"cancelled": model.StatusCancelled,
		"confirmed": model.StatusConfirmed,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to mark booking cancelled: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows == 1, nil
}
