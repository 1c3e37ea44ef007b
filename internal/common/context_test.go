package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitWithCancellation(t *testing.T) {
	assert.NoError(t, WaitWithCancellation(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, WaitWithCancellation(ctx, time.Hour), context.Canceled)
}

func TestTimestampedName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "survey_20240309_140507.log", TimestampedName("survey", ".log", ts))
}
