package services

import "github.com/google/uuid"

// IDFunc generates entity ids.
type IDFunc func() string

func orDefaultID(f IDFunc) IDFunc {
	if f == nil {
		return uuid.NewString
	}
	return f
}
