package repository

import (
	"context"

	"aibuilder/internal/domain/entity"
)

// GenerationRepository определяет интерфейс доступа к хранилищу
// сгенерированных планов (Generation).
type GenerationRepository interface {
	// Create inserts the record and returns the store-assigned id.
	Create(ctx context.Context, gen *entity.Generation) (string, error)
}
