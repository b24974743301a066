package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/report"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

const auditTrailLimit = 200

type AdminService struct {
	repo    AdminRepository
	reports report.ReportRepository
}

func NewAdminService(repo AdminRepository, reports report.ReportRepository) *AdminService {
	return &AdminService{repo: repo, reports: reports}
}

func (as *AdminService) ListUsers(ctx context.Context, role, status string) ([]model.User, error) {
	if role != "" && !constants.Role(role).Valid() {
		return nil, apperr.Validation("unknown role filter")
	}
	return as.repo.ListUsers(ctx, constants.Role(role), constants.AccountStatus(status))
}

func (as *AdminService) SetUserStatus(ctx context.Context, actorID, userID uuid.UUID, req types.UpdateUserStatusRequest) error {
	status := constants.AccountStatus(req.AccountStatus)
	if status != constants.AccountActive && status != constants.AccountSuspended {
		return apperr.Validation("status must be ACTIVE or SUSPENDED")
	}
	return as.repo.SetUserStatus(ctx, actorID, userID, status)
}

func (as *AdminService) VerifyUser(ctx context.Context, actorID, userID uuid.UUID) error {
	return as.repo.VerifyUser(ctx, actorID, userID)
}

func (as *AdminService) ListCrops(ctx context.Context) ([]model.Crop, error) {
	return as.repo.ListCrops(ctx)
}

func (as *AdminService) RemoveCrop(ctx context.Context, actorID, cropID uuid.UUID) (map[string]string, error) {
	softRemoved, err := as.repo.RemoveCrop(ctx, actorID, cropID)
	if err != nil {
		return nil, err
	}
	outcome := "deleted"
	if softRemoved {
		outcome = "removed"
	}
	return map[string]string{"outcome": outcome}, nil
}

func (as *AdminService) ListReports(ctx context.Context, status string) ([]model.Report, error) {
	return as.reports.ListByStatus(ctx, status)
}

func (as *AdminService) ResolveReport(ctx context.Context, actorID, reportID uuid.UUID, req types.ResolveReportRequest) (*model.Report, error) {
	if req.Status != "RESOLVED" && req.Status != "DISMISSED" {
		return nil, apperr.Validation("status must be RESOLVED or DISMISSED")
	}
	return as.repo.ResolveReport(ctx, actorID, reportID, req.Status, req.ResolutionNote)
}

func (as *AdminService) AuditTrail(ctx context.Context) ([]model.AuditLog, error) {
	return as.repo.AuditTrail(ctx, auditTrailLimit)
}
