package violations

import (
	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/validate"
	"github.com/hilthontt/trafficguard/internal/service"
)

// createViolationRequest represents a new traffic violation report
type createViolationRequest struct {
	Plate       string `json:"plate" example:"ABC-123" minLength:"1"`           // Vehicle plate number
	VehicleType string `json:"vehicleType" example:"Car"`                       // Car, Motorcycle, Truck, Bus or Van
	Owner       string `json:"owner,omitempty" example:"J. Driver"`             // Registered owner, defaults to Unknown
	Contact     string `json:"contact,omitempty" example:"+92-300-0000000"`     // Owner contact
	Type        string `json:"type" example:"red_light"`                        // Offense category from the fine schedule
	Severity    string `json:"severity,omitempty" example:"minor"`              // minor, moderate, major or critical
	Location    string `json:"location" example:"Main St & 5th Ave"`            // Where the offense was observed
	OfficerID   string `json:"officerId,omitempty" example:"OFF-042"`           // Reporting officer
	Notes       string `json:"notes,omitempty" example:"Ran the intersection"`  // Free-form notes
}

func (req createViolationRequest) validate() error {
	types := domain.ViolationTypes()
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}

	checks := []error{
		validate.Field("plate", validate.Required(), validate.MaxLength(16))(req.Plate),
		validate.Field("vehicleType", validate.Required(), validate.OneOf(
			string(domain.VehicleCar), string(domain.VehicleMotorcycle), string(domain.VehicleTruck),
			string(domain.VehicleBus), string(domain.VehicleVan),
		))(req.VehicleType),
		validate.Field("type", validate.Required(), validate.OneOf(typeNames...))(req.Type),
		validate.Field("severity", validate.OneOf(
			string(domain.SeverityMinor), string(domain.SeverityModerate),
			string(domain.SeverityMajor), string(domain.SeverityCritical),
		))(req.Severity),
		validate.Field("location", validate.Required(), validate.MaxLength(200))(req.Location),
		validate.Field("owner", validate.MaxLength(100))(req.Owner),
		validate.Field("notes", validate.MaxLength(1000))(req.Notes),
	}

	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func (req createViolationRequest) toInput() domain.ViolationInput {
	return domain.ViolationInput{
		Plate:       req.Plate,
		VehicleType: req.VehicleType,
		Owner:       req.Owner,
		Contact:     req.Contact,
		Type:        req.Type,
		Severity:    req.Severity,
		Location:    req.Location,
		OfficerID:   req.OfficerID,
		Notes:       req.Notes,
	}
}

// payRequest represents a payment against a violation
type payRequest struct {
	Method    string `json:"method" example:"Cash"`                  // Credit Card, Debit Card, Bank Transfer, Cash or Mobile Wallet
	PaidBy    string `json:"paidBy" example:"J. Driver"`             // Who settled the fine
	Reference string `json:"reference,omitempty" example:"TXN-1234"` // Optional external payment reference
}

func (req payRequest) validate() error {
	checks := []error{
		validate.Field("method", validate.Required(), validate.OneOf(
			string(domain.MethodCreditCard), string(domain.MethodDebitCard),
			string(domain.MethodBankTransfer), string(domain.MethodCash), string(domain.MethodMobileWallet),
		))(req.Method),
		validate.Field("paidBy", validate.Required(), validate.MaxLength(100))(req.PaidBy),
		validate.Field("reference", validate.MaxLength(100))(req.Reference),
	}

	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// listResponse is the paginated success envelope
type listResponse struct {
	Success bool               `json:"success"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	Data    []domain.Violation `json:"data"`
}

// recordResponse wraps a single violation
type recordResponse struct {
	Success bool              `json:"success"`
	Data    *domain.Violation `json:"data"`
}

// payResponse carries the receipt number alongside the settled record
type payResponse struct {
	Success   bool              `json:"success"`
	ReceiptNo string            `json:"receiptNo"`
	Data      *domain.Violation `json:"data"`
}

// deleteResponse confirms a removal
type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// statsResponse wraps dashboard counters
type statsResponse struct {
	Success bool           `json:"success"`
	Data    *service.Stats `json:"data"`
}

// reportsResponse wraps the analytics breakdowns
type reportsResponse struct {
	Success bool             `json:"success"`
	Data    *service.Reports `json:"data"`
}
