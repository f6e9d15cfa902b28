package provider

import "errors"

var (
	ErrProviderNotFound   = errors.New("spout provider not found")
	ErrProviderExists     = errors.New("spout provider already registered")
	ErrInvalidProviderArg = errors.New("invalid provider argument")

	ErrMissingOption = errors.New("missing required option")
	ErrInvalidOption = errors.New("invalid option")

	ErrModuleNotFound = errors.New("component module not found")
	ErrModuleExists   = errors.New("component module already registered")
)
