package attendance

import (
	"context"

	"github.com/hrsuite/hr-backend-go/internal/domain/attendance"
	"github.com/hrsuite/hr-backend-go/internal/pkg/duration"
	"github.com/hrsuite/hr-backend-go/internal/pkg/validator"
)

type ConditionServiceImpl struct {
	transactor    attendance.Transactor
	conditionRepo attendance.ValidationConditionRepository
}

func NewConditionService(
	transactor attendance.Transactor,
	conditionRepo attendance.ValidationConditionRepository,
) attendance.ConditionService {
	return &ConditionServiceImpl{
		transactor:    transactor,
		conditionRepo: conditionRepo,
	}
}

// GetCondition implements attendance.ConditionService.
func (c *ConditionServiceImpl) GetCondition(ctx context.Context) (*attendance.ConditionResponse, error) {
	cond, err := c.conditionRepo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, nil
	}
	return toConditionResponse(*cond), nil
}

// CreateCondition implements attendance.ConditionService.
func (c *ConditionServiceImpl) CreateCondition(ctx context.Context, req *attendance.CreateConditionRequest) (*attendance.ConditionResponse, error) {
	var errs validator.ValidationErrors
	for _, field := range []struct {
		name  string
		value string
	}{
		{"validation_at_work", req.ValidationAtWork},
		{"minimum_overtime_to_approve", req.MinimumOvertimeToApprove},
		{"overtime_cutoff", req.OvertimeCutoff},
	} {
		if !duration.Valid(field.value) {
			errs = append(errs, validator.ValidationError{
				Field:   field.name,
				Message: field.name + " must be a duration in H:MM format",
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var created attendance.ValidationCondition
	// Create takes a table lock; the transaction scopes it so two racing
	// creates serialize and the loser sees the winner's row.
	err := c.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.conditionRepo.Create(ctx, attendance.ValidationCondition{
			ValidationAtWork:         req.ValidationAtWork,
			MinimumOvertimeToApprove: req.MinimumOvertimeToApprove,
			OvertimeCutoff:           req.OvertimeCutoff,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return toConditionResponse(created), nil
}

func toConditionResponse(cond attendance.ValidationCondition) *attendance.ConditionResponse {
	return &attendance.ConditionResponse{
		ID:                       cond.ID,
		ValidationAtWork:         cond.ValidationAtWork,
		MinimumOvertimeToApprove: cond.MinimumOvertimeToApprove,
		OvertimeCutoff:           cond.OvertimeCutoff,
	}
}
