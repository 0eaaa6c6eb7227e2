package session

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore(t *testing.T) {
	testCases := []struct {
		name      string
		delay     time.Duration
		token     string
		expectErr error
	}{
		{name: "resolves before the ceiling", token: "access"},
		{name: "provider rejects token", token: "stale", expectErr: ErrInvalidCredentials},
		{name: "ceiling passes first", delay: 500 * time.Millisecond, token: "access", expectErr: ErrRestoreTimeout},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			provider := newFakeProvider()
			provider.restoreDelay = tc.delay
			start := time.Now()

			// when
			as, err := Restore(context.Background(), provider, tc.token, 50*time.Millisecond, discardLog)

			// then
			assert.Less(t, time.Since(start), 400*time.Millisecond)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Nil(t, as)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, provider.identity.UserID, as.Identity.UserID)
		})
	}
}

func TestRestore_CancelledRequest(t *testing.T) {
	// given
	provider := newFakeProvider()
	provider.restoreDelay = 500 * time.Millisecond
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	as, err := Restore(ctx, provider, "access", time.Minute, logger)

	// then
	assert.Nil(t, as)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRestoreTimeout)
	assert.Contains(t, buf.String(), "request cancelled")
	assert.NotContains(t, buf.String(), "exceeded ceiling")
}
