package testutil

import (
	"time"

	"github.com/agentry-go/agentry"
)

// NewTestRegistry returns a Registry with long timeout and panic recovery enabled,
// suitable for tests.
func NewTestRegistry(tools ...agentry.Tool) *agentry.Registry {
	reg := agentry.NewRegistry(
		agentry.WithDefaultTimeout(30*time.Second),
		agentry.WithRecoverPanics(true),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}
