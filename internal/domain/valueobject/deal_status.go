package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// DealStatus – immutable value object
// ---------------------------------------------------------------------------

// DealStatus represents the workflow stage of a loan deal.
type DealStatus struct {
	value string
}

const (
	dealStatusIntake        = "intake"
	dealStatusUnderwriting  = "underwriting"
	dealStatusApproved      = "approved"
	dealStatusTermSheetSent = "term_sheet_sent"
	dealStatusDeclined      = "declined"
	dealStatusClosed        = "closed"
)

var (
	DealStatusIntake        = DealStatus{value: dealStatusIntake}
	DealStatusUnderwriting  = DealStatus{value: dealStatusUnderwriting}
	DealStatusApproved      = DealStatus{value: dealStatusApproved}
	DealStatusTermSheetSent = DealStatus{value: dealStatusTermSheetSent}
	DealStatusDeclined      = DealStatus{value: dealStatusDeclined}
	DealStatusClosed        = DealStatus{value: dealStatusClosed}
)

var validDealStatuses = map[string]DealStatus{
	dealStatusIntake:        DealStatusIntake,
	dealStatusUnderwriting:  DealStatusUnderwriting,
	dealStatusApproved:      DealStatusApproved,
	dealStatusTermSheetSent: DealStatusTermSheetSent,
	dealStatusDeclined:      DealStatusDeclined,
	dealStatusClosed:        DealStatusClosed,
}

// NewDealStatus creates a DealStatus from a raw string.
func NewDealStatus(s string) (DealStatus, error) {
	v, ok := validDealStatuses[s]
	if !ok {
		return DealStatus{}, fmt.Errorf("invalid deal status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DealStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DealStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DealStatus) Equal(other DealStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// TermSheetStatus – immutable value object
// ---------------------------------------------------------------------------

// TermSheetStatus represents the lifecycle stage of a term sheet.
type TermSheetStatus struct {
	value string
}

const (
	termSheetStatusDraft    = "draft"
	termSheetStatusSent     = "sent"
	termSheetStatusAccepted = "accepted"
	termSheetStatusExpired  = "expired"
)

var (
	TermSheetStatusDraft    = TermSheetStatus{value: termSheetStatusDraft}
	TermSheetStatusSent     = TermSheetStatus{value: termSheetStatusSent}
	TermSheetStatusAccepted = TermSheetStatus{value: termSheetStatusAccepted}
	TermSheetStatusExpired  = TermSheetStatus{value: termSheetStatusExpired}
)

var validTermSheetStatuses = map[string]TermSheetStatus{
	termSheetStatusDraft:    TermSheetStatusDraft,
	termSheetStatusSent:     TermSheetStatusSent,
	termSheetStatusAccepted: TermSheetStatusAccepted,
	termSheetStatusExpired:  TermSheetStatusExpired,
}

// NewTermSheetStatus creates a TermSheetStatus from a raw string.
func NewTermSheetStatus(s string) (TermSheetStatus, error) {
	v, ok := validTermSheetStatuses[s]
	if !ok {
		return TermSheetStatus{}, fmt.Errorf("invalid term sheet status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s TermSheetStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s TermSheetStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s TermSheetStatus) Equal(other TermSheetStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// RecourseType – immutable value object
// ---------------------------------------------------------------------------

// RecourseType describes the lender's claim on the borrower beyond the collateral.
type RecourseType struct {
	value string
}

const (
	recourseFull    = "recourse"
	recourseNone    = "non_recourse"
	recoursePartial = "partial"
)

var (
	RecourseFull    = RecourseType{value: recourseFull}
	RecourseNone    = RecourseType{value: recourseNone}
	RecoursePartial = RecourseType{value: recoursePartial}
)

var validRecourseTypes = map[string]RecourseType{
	recourseFull:    RecourseFull,
	recourseNone:    RecourseNone,
	recoursePartial: RecoursePartial,
}

// NewRecourseType parses a recourse type. An empty string yields RecourseFull.
func NewRecourseType(s string) (RecourseType, error) {
	if s == "" {
		return RecourseFull, nil
	}
	v, ok := validRecourseTypes[s]
	if !ok {
		return RecourseType{}, fmt.Errorf("invalid recourse type: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (r RecourseType) String() string { return r.value }

// IsZero returns true when not initialised.
func (r RecourseType) IsZero() bool { return r.value == "" }

// Equal returns true when both values match.
func (r RecourseType) Equal(other RecourseType) bool { return r.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
