package service

import "errors"

var (
	ErrValidation              = errors.New("name, email and phone are required")
	ErrVerificationFailed      = errors.New("recaptcha verification failed")
	ErrRegistrantAlreadyExists = errors.New("registrant already exists")
)
