package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (rs *ReportService) Create(ctx context.Context, reporterID uuid.UUID, req types.CreateReportRequest) (*model.Report, error) {
	if req.ReportedUserID == nil && req.CropID == nil {
		return nil, apperr.Validation("report must name a user or a listing")
	}
	rep := &model.Report{
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		CropID:         req.CropID,
		Reason:         req.Reason,
		Status:         "OPEN",
	}
	if err := rs.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (rs *ReportService) MyReports(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	return rs.repo.ListByReporter(ctx, reporterID)
}
