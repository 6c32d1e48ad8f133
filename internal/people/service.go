// Package people implements person-entity creation: create or select a
// shared person record and link it to a role-specific client, lender or
// realtor row. All writes run in one transaction so a later-step failure
// cannot leave an orphaned person.
package people

import (
	"context"
	"errors"
	"fmt"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateEntityInput is the tagged union for person-entity creation: Kind
// selects which role field set applies; exactly that variant is validated.
type CreateEntityInput struct {
	Kind             models.EntityKind         `json:"kind"`
	ExistingPersonID string                    `json:"existingPersonId"`
	Person           validation.PersonInput    `json:"person"`
	Client           *validation.ClientFields  `json:"client,omitempty"`
	Lender           *validation.LenderFields  `json:"lender,omitempty"`
	Realtor          *validation.RealtorFields `json:"realtor,omitempty"`
	UserID           string                    `json:"-"`
}

// CreateEntityResult reports the outcome, with a success flag and an
// aggregated error string for validation failures.
type CreateEntityResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	PersonID string `json:"personId,omitempty"`
	EntityID string `json:"entityId,omitempty"`
}

// Service creates linked person/entity records.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewService constructs a Service.
func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// CreateEntity validates the input and performs the person write, the role
// write and the join-row insert atomically. Validation failures never reach
// the database. When ExistingPersonID is set, person-field validation is
// bypassed entirely; only the entity-level rules apply.
func (s *Service) CreateEntity(ctx context.Context, in CreateEntityInput) (CreateEntityResult, error) {
	if err := s.validate(in); err != nil {
		return CreateEntityResult{Success: false, Error: err.Error()}, err
	}

	var personID, entityID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		personID, err = s.resolvePerson(tx, in)
		if err != nil {
			return err
		}
		entityID, err = s.createEntity(tx, in, personID)
		if err != nil {
			return err
		}
		link := models.PersonLink{
			ID:         uuid.NewString(),
			PersonID:   personID,
			EntityKind: in.Kind,
			EntityID:   entityID,
			IsPrimary:  true,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return CreateEntityResult{Success: false, Error: err.Error()}, err
	}
	return CreateEntityResult{Success: true, PersonID: personID, EntityID: entityID}, nil
}

func (s *Service) validate(in CreateEntityInput) error {
	if in.ExistingPersonID == "" {
		if err := in.Person.Validate(); err != nil {
			return err
		}
	}
	switch in.Kind {
	case models.KindClient:
		if in.Client == nil {
			return errors.New("validation failed: client fields are required")
		}
		return in.Client.Validate()
	case models.KindLender:
		if in.Lender == nil {
			return errors.New("validation failed: lender fields are required")
		}
		return in.Lender.Validate()
	case models.KindRealtor:
		if in.Realtor == nil {
			return errors.New("validation failed: realtor fields are required")
		}
		return in.Realtor.Validate()
	default:
		return fmt.Errorf("validation failed: unknown entity kind %q", in.Kind)
	}
}

func (s *Service) resolvePerson(tx *gorm.DB, in CreateEntityInput) (string, error) {
	if in.ExistingPersonID != "" {
		var existing models.Person
		if err := tx.Where("id = ?", in.ExistingPersonID).First(&existing).Error; err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	person := models.Person{
		ID:        uuid.NewString(),
		FirstName: in.Person.FirstName,
		LastName:  in.Person.LastName,
		Email:     in.Person.Email,
		Phone:     in.Person.Phone,
		Address:   in.Person.Address,
		City:      in.Person.City,
		State:     in.Person.State,
		ZipCode:   in.Person.ZipCode,
		UserID:    in.UserID,
	}
	if err := tx.Create(&person).Error; err != nil {
		return "", err
	}
	return person.ID, nil
}

func (s *Service) createEntity(tx *gorm.DB, in CreateEntityInput, personID string) (string, error) {
	id := uuid.NewString()
	switch in.Kind {
	case models.KindClient:
		c := models.Client{
			ID:              id,
			PrimaryPersonID: personID,
			Status:          models.ClientStatusLead,
			AnnualIncome:    in.Client.AnnualIncome,
			CreditScore:     in.Client.CreditScore,
			EmploymentType:  in.Client.EmploymentType,
			Notes:           in.Client.Notes,
			UserID:          in.UserID,
		}
		return id, tx.Create(&c).Error
	case models.KindLender:
		l := models.Lender{
			ID:              id,
			PrimaryPersonID: personID,
			Institution:     in.Lender.Institution,
			LoanPrograms:    in.Lender.LoanPrograms,
			MinCreditScore:  in.Lender.MinCreditScore,
			MaxLoanAmount:   in.Lender.MaxLoanAmount,
			InterestRate:    in.Lender.InterestRate,
			Notes:           in.Lender.Notes,
			UserID:          in.UserID,
		}
		return id, tx.Create(&l).Error
	default:
		r := models.Realtor{
			ID:              id,
			PrimaryPersonID: personID,
			Brokerage:       in.Realtor.Brokerage,
			LicenseNumber:   in.Realtor.LicenseNumber,
			YearsExperience: in.Realtor.YearsExperience,
			Notes:           in.Realtor.Notes,
			UserID:          in.UserID,
		}
		return id, tx.Create(&r).Error
	}
}
