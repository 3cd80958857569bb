// Package testutil provides testing utilities shared by the datatypes packages
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/datatypes/pkg/logger"
)

// DefaultTimeout bounds contexts returned by Context
const DefaultTimeout = 30 * time.Second

// UseTestLogger routes the global logger to the test output until the test
// completes, then restores the previous logger.
func UseTestLogger(t testing.TB) *zap.Logger {
	t.Helper()

	prev := logger.Get()
	l := zaptest.NewLogger(t)
	logger.Set(l)
	t.Cleanup(func() { logger.Set(prev) })
	return l
}

// Context returns a context cancelled after DefaultTimeout or when the test
// completes, whichever comes first.
func Context(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	t.Cleanup(cancel)
	return ctx
}

// Suite is a testify suite with a per-test logger, context and scratch
// directory
type Suite struct {
	suite.Suite

	Ctx     context.Context
	TempDir string
}

// SetupTest runs before each test in the suite
func (s *Suite) SetupTest() {
	t := s.T()
	UseTestLogger(t)
	s.Ctx = Context(t)
	s.TempDir = t.TempDir()
}
