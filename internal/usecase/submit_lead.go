package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

type SubmitLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewSubmitLeadUseCase(leadRepo entity.LeadRepositoryInterface) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{LeadRepo: leadRepo}
}

// Execute runs the intake pipeline: validate, dedup against existing records
// for the same contact, then persist with a deterministic custom id.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	phone, validationErrors := ValidateLead(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "validation failed",
			Fields:  validationErrors,
		}
	}

	existing, err := uc.LeadRepo.FindByContact(ctx, input.Name, phone)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "failed to look up existing leads: " + err.Error(),
		}
	}

	// One contact may buy several distinct services, but never the same
	// service twice while a prior request is open or already paid.
	for _, rec := range existing {
		if rec.Service != input.Service {
			continue
		}
		if rec.PaymentStatus == entity.PaymentPaid {
			return nil, &DomainError{
				Code:    CodeDuplicatePaid,
				Message: fmt.Sprintf("a paid ticket %s already exists for this service", rec.CustomID),
			}
		}
		return nil, &DomainError{
			Code:    CodeDuplicateUnpaid,
			Message: "we already have your request for this service and will be in touch shortly",
		}
	}

	customID := entity.BaseCustomID(input.Name, phone)
	if len(existing) > 0 {
		// Contact already holds records for other services; qualify the id
		// to keep it unique per contact.
		customID = customID + "-" + input.Service
	}

	lead := entity.NewLead(input.Name, phone, input.Location, input.Service)
	lead.CustomID = customID
	lead.Description = input.Description
	lead.LegalNoticeType = input.LegalNoticeType
	lead.Email = input.Email

	if err := uc.LeadRepo.Insert(ctx, lead); err != nil {
		// Unique-constraint backstop for two near-simultaneous submissions
		// that both passed the read-then-decide check above.
		if errors.Is(err, entity.ErrDuplicateLead) {
			return nil, &DomainError{
				Code:    CodeDuplicatePaid,
				Message: "a ticket already exists for this contact and service",
			}
		}
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	logger.L().Info("lead captured",
		zap.String("lead_id", lead.ID),
		zap.String("custom_id", lead.CustomID),
		zap.String("service", lead.Service),
	)

	return &SubmitLeadOutput{LeadID: lead.ID, CustomID: lead.CustomID}, nil
}
