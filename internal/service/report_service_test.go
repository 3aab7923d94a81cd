package service

import (
	"context"
	"errors"
	"testing"

	"ai-medreport-be/internal/dto"
	"ai-medreport-be/internal/entity"
	"ai-medreport-be/internal/pkg/serverutils"
	"ai-medreport-be/internal/repository/specification"
	"ai-medreport-be/pkg/analysis"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	result *analysis.Result
	err    error
	calls  int
}

func (f *fakeEngine) Analyze(_ context.Context, _ analysis.Request) (*analysis.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeReportRepo struct {
	reports      []*entity.MedicalReport
	failing      bool
	findAllSpecs []specification.Specification
}

func (f *fakeReportRepo) Create(_ context.Context, report *entity.MedicalReport) error {
	if f.failing {
		return errors.New("db down")
	}
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportRepo) Update(_ context.Context, _ *entity.MedicalReport) error { return nil }

func (f *fakeReportRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.MedicalReport, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			for _, r := range f.reports {
				if r.Id == byID.ID {
					return r, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.MedicalReport, error) {
	f.findAllSpecs = specs
	return f.reports, nil
}

func (f *fakeReportRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(f.reports)), nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Fingerprint: "abc123",
		Symptoms:    []string{"chest pain"},
		Medications: []string{"aspirin"},
		RiskFlags:   []string{"ALERT: Chest Pain"},
		Specialty:   "Cardiology",
		Source:      "ai",
		Confidence:  0.85,
		ChunkCount:  1,
	}
}

func TestReportServiceAnalyzePersistsAndPublishes(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	repo := &fakeReportRepo{}
	pub := &fakePublisher{}
	svc := NewReportService(engine, repo, pub)

	res, err := svc.Analyze(context.Background(), "client-1", &dto.AnalyzeReportRequest{
		Text:     "Patient reports chest pain.",
		Filename: "visit.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", res.Fingerprint)
	assert.Equal(t, "Cardiology", res.Analysis.Specialty)
	assert.Equal(t, dto.Disclaimer, res.Disclaimer)

	require.Len(t, repo.reports, 1)
	assert.Equal(t, "client-1", repo.reports[0].ClientKey)
	assert.Equal(t, "visit.txt", repo.reports[0].Filename)
	assert.Equal(t, "Patient reports chest pain.", repo.reports[0].Text)
	assert.Equal(t, entity.ReportStatusCompleted, repo.reports[0].Status)

	require.Len(t, pub.payloads, 1)
	assert.Contains(t, string(pub.payloads[0]), repo.reports[0].Id.String())
}

func TestReportServiceAnalyzeEngineErrorMarksReportFailed(t *testing.T) {
	engine := &fakeEngine{err: analysis.ErrEmptyInput}
	repo := &fakeReportRepo{}
	pub := &fakePublisher{}
	svc := NewReportService(engine, repo, pub)

	_, err := svc.Analyze(context.Background(), "client-1", &dto.AnalyzeReportRequest{Text: "   "})
	assert.ErrorIs(t, err, analysis.ErrEmptyInput)

	require.Len(t, repo.reports, 1)
	assert.Equal(t, entity.ReportStatusFailed, repo.reports[0].Status)
	assert.Equal(t, "document text is empty", repo.reports[0].ErrorMsg)
	assert.Empty(t, pub.payloads)
}

func TestReportServiceAnalyzeCreateFailureSkipsEngine(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	repo := &fakeReportRepo{failing: true}
	svc := NewReportService(engine, repo, &fakePublisher{})

	_, err := svc.Analyze(context.Background(), "client-1", &dto.AnalyzeReportRequest{Text: "Patient reports chest pain."})
	assert.Error(t, err)
	assert.Zero(t, engine.calls)
}

func TestReportServiceShowNotFound(t *testing.T) {
	svc := NewReportService(&fakeEngine{result: sampleResult()}, &fakeReportRepo{}, &fakePublisher{})

	_, err := svc.Show(context.Background(), uuid.New())
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestReportServiceShowReturnsStoredReport(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	repo := &fakeReportRepo{}
	svc := NewReportService(engine, repo, &fakePublisher{})

	created, err := svc.Analyze(context.Background(), "client-1", &dto.AnalyzeReportRequest{Text: "Patient reports chest pain."})
	require.NoError(t, err)

	shown, err := svc.Show(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, shown.Id)
	assert.Equal(t, "Patient reports chest pain.", shown.Text)
	assert.Equal(t, created.Analysis.Specialty, shown.Analysis.Specialty)
}

func TestReportServiceHistoryClampsLimit(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(&fakeEngine{result: sampleResult()}, repo, &fakePublisher{})

	res, err := svc.History(context.Background(), "client-1", "", 5000, -3)
	require.NoError(t, err)
	assert.Equal(t, maxHistoryLimit, res.Limit)
	assert.Equal(t, 0, res.Offset)

	res, err = svc.History(context.Background(), "client-1", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, res.Limit)
}

func TestReportServiceHistoryFiltersBySpecialty(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(&fakeEngine{result: sampleResult()}, repo, &fakePublisher{})

	_, err := svc.History(context.Background(), "client-1", "Cardiology", 0, 0)
	require.NoError(t, err)
	assert.Contains(t, repo.findAllSpecs, specification.BySpecialty{Specialty: "Cardiology"})

	_, err = svc.History(context.Background(), "client-1", "", 0, 0)
	require.NoError(t, err)
	assert.NotContains(t, repo.findAllSpecs, specification.BySpecialty{Specialty: ""})
	for _, spec := range repo.findAllSpecs {
		_, isSpecialty := spec.(specification.BySpecialty)
		assert.False(t, isSpecialty, "no specialty filter without a query value")
	}
}

func TestReportServiceExportIncludesDisclaimer(t *testing.T) {
	engine := &fakeEngine{result: sampleResult()}
	repo := &fakeReportRepo{}
	svc := NewReportService(engine, repo, &fakePublisher{})

	created, err := svc.Analyze(context.Background(), "client-1", &dto.AnalyzeReportRequest{Text: "Patient reports chest pain."})
	require.NoError(t, err)

	exported, err := svc.Export(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, dto.Disclaimer, exported.Disclaimer)
	assert.Equal(t, created.Id, exported.Id)
	assert.False(t, exported.ExportedAt.IsZero())
}
