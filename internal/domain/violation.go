package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	violationIDPrefix = "TG-"
	receiptNoPrefix   = "RCT-"

	// DefaultOwner is recorded when the reporting officer leaves the owner blank.
	DefaultOwner = "Unknown"
)

var (
	ErrViolationNotFound  = errors.New("violation not found")
	ErrDuplicateViolation = errors.New("violation already exists")
	ErrAlreadyPaid        = errors.New("violation is already paid")
	ErrNotUnpaid          = errors.New("violation is not unpaid")
	ErrInvalidInput       = errors.New("invalid input")
)

type VehicleType string

const (
	VehicleCar        VehicleType = "Car"
	VehicleMotorcycle VehicleType = "Motorcycle"
	VehicleTruck      VehicleType = "Truck"
	VehicleBus        VehicleType = "Bus"
	VehicleVan        VehicleType = "Van"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleCar, VehicleMotorcycle, VehicleTruck, VehicleBus, VehicleVan:
		return true
	}
	return false
}

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

type Status string

const (
	StatusUnpaid   Status = "unpaid"
	StatusPaid     Status = "paid"
	StatusDisputed Status = "disputed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusDisputed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "Credit Card"
	MethodDebitCard    PaymentMethod = "Debit Card"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodCash         PaymentMethod = "Cash"
	MethodMobileWallet PaymentMethod = "Mobile Wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodCash, MethodMobileWallet:
		return true
	}
	return false
}

// Payment is attached exactly once, at the moment a violation is paid.
type Payment struct {
	Method    PaymentMethod `bson:"method" json:"method"`
	PaidBy    string        `bson:"paid_by" json:"paidBy"`
	Reference string        `bson:"reference" json:"reference"`
	ReceiptNo string        `bson:"receipt_no" json:"receiptNo"`
	PaidAt    time.Time     `bson:"paid_at" json:"paidAt"`
}

type Violation struct {
	ID          string      `bson:"_id" json:"id"`
	Plate       string      `bson:"plate" json:"plate"`
	VehicleType VehicleType `bson:"vehicle_type" json:"vehicleType"`
	Owner       string      `bson:"owner" json:"owner"`
	Contact     string      `bson:"contact" json:"contact"`

	Type      ViolationType `bson:"type" json:"type"`
	Severity  Severity      `bson:"severity" json:"severity"`
	Location  string        `bson:"location" json:"location"`
	OfficerID string        `bson:"officer_id" json:"officerId"`
	Notes     string        `bson:"notes" json:"notes"`

	// Fine fields are computed once at creation and never recomputed,
	// even if the schedule changes afterwards.
	BaseFine      int64 `bson:"base_fine" json:"baseFine"`
	ProcessingFee int64 `bson:"processing_fee" json:"processingFee"`
	TotalFine     int64 `bson:"total_fine" json:"totalFine"`

	Status  Status   `bson:"status" json:"status"`
	Payment *Payment `bson:"payment,omitempty" json:"payment,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ViolationInput carries the officer-supplied fields of a new record.
// ID, fine amounts and status are derived, never accepted from callers.
type ViolationInput struct {
	Plate       string
	VehicleType string
	Owner       string
	Contact     string
	Type        string
	Severity    string
	Location    string
	OfficerID   string
	Notes       string
}

// PaymentInput carries the clerk-supplied fields of a payment.
type PaymentInput struct {
	Method    string
	PaidBy    string
	Reference string
}

type ViolationFilter struct {
	Search string
	Status Status
	Type   ViolationType
	Page   int
	Limit  int
}

type ViolationRepository interface {
	Create(ctx context.Context, v *Violation) error
	GetByID(ctx context.Context, id string) (*Violation, error)
	GetByPlate(ctx context.Context, plate string) (*Violation, error)
	Find(ctx context.Context, filter ViolationFilter) ([]Violation, int, error)
	All(ctx context.Context) ([]Violation, error)
	Update(ctx context.Context, v *Violation) error
	Delete(ctx context.Context, id string) (*Violation, error)
	EnsureIndexes(ctx context.Context) error
}

// NewViolation validates and normalizes officer input, computes the frozen
// fine amounts and returns a record in the initial unpaid state.
func NewViolation(in ViolationInput) (*Violation, error) {
	plate := NormalizePlate(in.Plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrInvalidInput)
	}

	vehicleType := VehicleType(strings.TrimSpace(in.VehicleType))
	if !vehicleType.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidInput, in.VehicleType)
	}

	violationType := ViolationType(strings.TrimSpace(in.Type))
	if !violationType.Valid() {
		return nil, fmt.Errorf("%w: unknown violation type %q", ErrInvalidInput, in.Type)
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}

	severity := SeverityMinor
	if s := strings.TrimSpace(in.Severity); s != "" {
		severity = Severity(s)
		if !severity.Valid() {
			return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, in.Severity)
		}
	}

	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		owner = DefaultOwner
	}

	fine := CalculateFine(violationType)
	now := time.Now()

	return &Violation{
		ID:            NewViolationID(now),
		Plate:         plate,
		VehicleType:   vehicleType,
		Owner:         owner,
		Contact:       strings.TrimSpace(in.Contact),
		Type:          violationType,
		Severity:      severity,
		Location:      location,
		OfficerID:     strings.TrimSpace(in.OfficerID),
		Notes:         strings.TrimSpace(in.Notes),
		BaseFine:      fine.Base,
		ProcessingFee: fine.Fee,
		TotalFine:     fine.Total,
		Status:        StatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Pay transitions the record to paid and attaches the single payment
// sub-record. Any status except paid is payable; a disputed record may
// still be settled. Paid is terminal.
func (v *Violation) Pay(in PaymentInput) error {
	if v.Status == StatusPaid {
		return ErrAlreadyPaid
	}

	method := PaymentMethod(strings.TrimSpace(in.Method))
	if !method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, in.Method)
	}

	paidBy := strings.TrimSpace(in.PaidBy)
	if paidBy == "" {
		return fmt.Errorf("%w: paidBy is required", ErrInvalidInput)
	}

	now := time.Now()
	v.Status = StatusPaid
	v.Payment = &Payment{
		Method:    method,
		PaidBy:    paidBy,
		Reference: strings.TrimSpace(in.Reference),
		ReceiptNo: NewReceiptNo(now),
		PaidAt:    now,
	}
	v.UpdatedAt = now

	return nil
}

// Dispute transitions unpaid to disputed. Every other starting state is
// rejected; disputing twice is not idempotent.
func (v *Violation) Dispute() error {
	if v.Status != StatusUnpaid {
		return ErrNotUnpaid
	}

	v.Status = StatusDisputed
	v.UpdatedAt = time.Now()

	return nil
}

func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

var (
	idMu      sync.Mutex
	lastStamp int64
)

// nextStamp returns strictly increasing millisecond stamps so two records
// minted within the same millisecond never share an id.
func nextStamp(now time.Time) int64 {
	idMu.Lock()
	defer idMu.Unlock()

	stamp := now.UnixMilli()
	if stamp <= lastStamp {
		stamp = lastStamp + 1
	}
	lastStamp = stamp

	return stamp
}

// NewViolationID mints an id in the TG-<base36 unix millis> format.
func NewViolationID(now time.Time) string {
	return violationIDPrefix + strings.ToUpper(strconv.FormatInt(nextStamp(now), 36))
}

func NewReceiptNo(now time.Time) string {
	return receiptNoPrefix + strings.ToUpper(strconv.FormatInt(nextStamp(now), 36))
}
