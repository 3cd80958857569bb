package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/datatypes/pkg/logger"
)

func TestUseTestLogger(t *testing.T) {
	prev := logger.Get()

	t.Run("inner", func(t *testing.T) {
		l := UseTestLogger(t)
		assert.Same(t, l, logger.Get())
	})

	assert.Same(t, prev, logger.Get())
}

func TestContextDeadline(t *testing.T) {
	ctx := Context(t)
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultTimeout), deadline, time.Second)
}

type exampleSuite struct {
	Suite
}

func (s *exampleSuite) TestSetup() {
	s.NotNil(s.Ctx)
	s.DirExists(s.TempDir)
	s.NoError(s.Ctx.Err())
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(exampleSuite))
}
