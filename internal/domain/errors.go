package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and adapters. Delivery layers map them to status codes.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// Filter compiler rejections.
var (
	ErrInvalidFilter            = errors.New("invalid filter")
	ErrMultipleInequalityFields = errors.New("inequality filter is allowed on only one field")
	ErrInvalidFilterValue       = errors.New("invalid filter value")
)

// Business rule violations. All of them match ErrConflict with errors.Is.
var (
	ErrAlreadyRegistered    = fmt.Errorf("%w: you have already registered for this conference", ErrConflict)
	ErrSoldOut              = fmt.Errorf("%w: there are no seats available", ErrConflict)
	ErrAlreadyInWishlist    = fmt.Errorf("%w: you have already added this session to your wishlist", ErrConflict)
	ErrRegistrationRequired = fmt.Errorf("%w: registration required", ErrConflict)
	ErrSpeakerExists        = fmt.Errorf("%w: speaker already exists", ErrConflict)
)
