// FILE: internal/service/report_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-medreport-be/internal/dto"
	"ai-medreport-be/internal/entity"
	"ai-medreport-be/internal/pkg/serverutils"
	"ai-medreport-be/internal/repository/contract"
	"ai-medreport-be/internal/repository/specification"
	"ai-medreport-be/pkg/analysis"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AnalysisEngine is the slice of the pipeline this service depends on.
// Satisfied by *analysis.Engine.
type AnalysisEngine interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

type IReportService interface {
	Analyze(ctx context.Context, clientKey string, req *dto.AnalyzeReportRequest) (*dto.AnalyzeReportResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowReportResponse, error)
	History(ctx context.Context, clientKey, specialty string, limit, offset int) (*dto.ReportHistoryResponse, error)
	Export(ctx context.Context, id uuid.UUID) (*dto.ExportReportResponse, error)
}

type reportService struct {
	engine           AnalysisEngine
	reportRepo       contract.ReportRepository
	publisherService IPublisherService
}

func NewReportService(
	engine AnalysisEngine,
	reportRepo contract.ReportRepository,
	publisherService IPublisherService,
) IReportService {
	return &reportService{
		engine:           engine,
		reportRepo:       reportRepo,
		publisherService: publisherService,
	}
}

func (s *reportService) Analyze(ctx context.Context, clientKey string, req *dto.AnalyzeReportRequest) (*dto.AnalyzeReportResponse, error) {
	report := &entity.MedicalReport{
		Id:        uuid.New(),
		ClientKey: clientKey,
		Filename:  req.Filename,
		FileType:  req.FileType,
		SizeBytes: req.SizeBytes,
		Status:    entity.ReportStatusProcessing,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	result, err := s.engine.Analyze(ctx, analysis.Request{
		DocumentID: report.Id.String(),
		Text:       req.Text,
		ClientKey:  clientKey,
	})
	if err != nil {
		// Coarse message only: provider bodies never reach the row.
		report.Status = entity.ReportStatusFailed
		report.ErrorMsg = failureMessage(err)
		_ = s.reportRepo.Update(ctx, report)
		return nil, err
	}

	applyResult(report, result)
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	// Event publishing is best effort: the analysis already succeeded.
	msg := dto.PublishReportAnalyzedMessage{ReportId: report.Id}
	if msgJson, err := json.Marshal(msg); err == nil {
		_ = s.publisherService.Publish(ctx, msgJson)
	}

	return &dto.AnalyzeReportResponse{
		Id:          report.Id,
		Fingerprint: report.Fingerprint,
		Filename:    report.Filename,
		Status:      report.Status,
		Analysis:    entityToPayload(report),
		Disclaimer:  dto.Disclaimer,
		CreatedAt:   report.CreatedAt,
	}, nil
}

func failureMessage(err error) string {
	var rle *analysis.RateLimitError
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return "document text is empty"
	case errors.As(err, &rle):
		return "rate limit exceeded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "analysis cancelled"
	default:
		return "analysis failed"
	}
}

func (s *reportService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowReportResponse, error) {
	report, err := s.reportRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %s: %w", id, serverutils.ErrNotFound)
	}

	return &dto.ShowReportResponse{
		Id:          report.Id,
		Fingerprint: report.Fingerprint,
		Filename:    report.Filename,
		Status:      report.Status,
		ErrorMsg:    report.ErrorMsg,
		Text:        report.Text,
		Analysis:    entityToPayload(report),
		Disclaimer:  dto.Disclaimer,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}, nil
}

func (s *reportService) History(ctx context.Context, clientKey, specialty string, limit, offset int) (*dto.ReportHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	filters := []specification.Specification{
		specification.ByClientKey{ClientKey: clientKey},
	}
	if specialty != "" {
		filters = append(filters, specification.BySpecialty{Specialty: specialty})
	}

	reports, err := s.reportRepo.FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)...)
	if err != nil {
		return nil, err
	}

	total, err := s.reportRepo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReportHistoryItem, 0, len(reports))
	for _, r := range reports {
		items = append(items, dto.ReportHistoryItem{
			Id:           r.Id,
			Fingerprint:  r.Fingerprint,
			Filename:     r.Filename,
			Status:       r.Status,
			Specialty:    r.Specialty,
			Confidence:   r.Confidence,
			RiskFlagsNum: len(r.RiskFlags),
			Degraded:     r.Degraded,
			CreatedAt:    r.CreatedAt,
		})
	}

	return &dto.ReportHistoryResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *reportService) Export(ctx context.Context, id uuid.UUID) (*dto.ExportReportResponse, error) {
	report, err := s.reportRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %s: %w", id, serverutils.ErrNotFound)
	}

	return &dto.ExportReportResponse{
		Id:         report.Id,
		Filename:   report.Filename,
		Text:       report.Text,
		Analysis:   entityToPayload(report),
		Disclaimer: dto.Disclaimer,
		ExportedAt: time.Now(),
	}, nil
}

func applyResult(report *entity.MedicalReport, result *analysis.Result) {
	report.Status = entity.ReportStatusCompleted
	report.Fingerprint = result.Fingerprint

	report.PatientAge = result.PatientInfo.Age
	report.PatientGender = result.PatientInfo.Gender

	report.Symptoms = result.Symptoms
	report.Medications = result.Medications
	report.Procedures = result.Procedures
	report.LabValues = result.LabValues
	report.BodyParts = result.BodyParts
	report.ClinicalImpression = result.ClinicalImpression

	report.RiskFlags = result.RiskFlags
	report.Specialty = result.Specialty
	report.Source = result.Source
	report.Confidence = result.Confidence

	report.ProfessionalSummary = result.ProfessionalSummary
	report.PatientFriendlySummary = result.PatientFriendlySummary

	report.Degraded = result.Degraded
	report.DegradedReason = result.DegradedReason
	report.Cached = result.Cached
	report.ChunkCount = result.ChunkCount
	report.FailedChunks = result.FailedChunks
	report.ProcessingMS = result.ProcessingMS
}

func entityToPayload(r *entity.MedicalReport) dto.AnalysisPayload {
	return dto.AnalysisPayload{
		PatientInfo: dto.PatientInfoPayload{
			Age:    r.PatientAge,
			Gender: r.PatientGender,
		},
		Symptoms:           r.Symptoms,
		Medications:        r.Medications,
		Procedures:         r.Procedures,
		LabValues:          r.LabValues,
		BodyParts:          r.BodyParts,
		ClinicalImpression: r.ClinicalImpression,

		RiskFlags:  r.RiskFlags,
		Specialty:  r.Specialty,
		Source:     r.Source,
		Confidence: r.Confidence,

		ProfessionalSummary:    r.ProfessionalSummary,
		PatientFriendlySummary: r.PatientFriendlySummary,

		Degraded:       r.Degraded,
		DegradedReason: r.DegradedReason,
		Cached:         r.Cached,
		ChunkCount:     r.ChunkCount,
		FailedChunks:   r.FailedChunks,
		ProcessingMS:   r.ProcessingMS,
	}
}
