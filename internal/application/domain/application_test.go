package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/jobtracker/internal/errors"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"applied", "interviewing", "rejected", "offer", "archived"} {
		status, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), status)
	}

	for _, s := range []string{"", "APPLIED", "hired"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, errors.ErrInvalidInput, s)
	}
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusOffer.IsValid())
	assert.False(t, Status("ghosted").IsValid())
}
