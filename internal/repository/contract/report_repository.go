package contract

import (
	"context"

	"ai-medreport-be/internal/entity"
	"ai-medreport-be/internal/repository/specification"
)

// ReportRepository is append-style: reports are created as processing and
// updated once to a terminal state, never deleted.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.MedicalReport) error
	Update(ctx context.Context, report *entity.MedicalReport) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MedicalReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MedicalReport, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
