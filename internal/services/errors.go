// Package services defines the business logic for donor profiles, medical
// screenings, donation history, matching, and donation requests. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Donor-related errors.
var (
	// ErrDonorNotFound indicates that the requested donor profile does not
	// exist or is not accessible to the current user.
	ErrDonorNotFound = errors.New("donor not found")

	// ErrDonorExists is returned when a user who already owns a donor profile
	// attempts to register another one.
	ErrDonorExists = errors.New("donor profile already exists")

	// ErrEmptyDisplayName is returned when a profile is registered or updated
	// with a blank display name.
	ErrEmptyDisplayName = errors.New("display name is empty")

	// ErrInvalidBloodType is returned when a blood type is outside the
	// supported I–IV notation.
	ErrInvalidBloodType = errors.New("blood type must be one of I, II, III, IV")

	// ErrInvalidRhFactor is returned when a Rhesus factor is neither
	// "positive" nor "negative".
	ErrInvalidRhFactor = errors.New("rh factor must be positive or negative")
)

// Screening and donation errors.
var (
	// ErrScreeningNotFound indicates that the donor has not submitted the
	// medical questionnaire yet.
	ErrScreeningNotFound = errors.New("screening not found")

	// ErrInvalidDonationType is returned when a donation type is outside the
	// supported set (whole_blood, plasma, platelets).
	ErrInvalidDonationType = errors.New("donation type must be whole_blood, plasma, or platelets")

	// ErrInvalidDonationDate is returned when a donation is recorded with a
	// missing or future date.
	ErrInvalidDonationDate = errors.New("donation date must be set and not in the future")
)

// Request-related errors.
var (
	// ErrRequestNotFound indicates that the requested donation request does
	// not exist or is not accessible to the current user.
	ErrRequestNotFound = errors.New("request not found")

	// ErrRequestNotPending is returned when a donor answers a request that
	// has already been accepted or declined.
	ErrRequestNotPending = errors.New("request already answered")

	// ErrForbiddenRequest is returned when a user attempts to answer a
	// request addressed to a donor profile they do not own.
	ErrForbiddenRequest = errors.New("cannot answer this request")

	// ErrDonorNotRequestable is returned when a request targets a donor that
	// is not approved or not visible to seekers.
	ErrDonorNotRequestable = errors.New("donor is not open to requests")
)
