package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type restoreResult struct {
	session *AuthSession
	err     error
}

// Restore waits at most ceiling for the provider to resolve an existing access token.
// When the ceiling passes first ErrRestoreTimeout is returned; when ctx ends first its error
// is returned wrapped. Either way the provider call keeps running and its late result is
// logged and dropped so it can never sign anyone in.
func Restore(ctx context.Context, provider AuthProvider, accessToken string, ceiling time.Duration, logger *slog.Logger) (*AuthSession, error) {
	results := make(chan restoreResult, 1)
	go func() {
		as, err := provider.CurrentSession(context.WithoutCancel(ctx), accessToken)
		results <- restoreResult{session: as, err: err}
	}()

	timer := time.NewTimer(ceiling)
	defer timer.Stop()

	var err error

	select {
	case res := <-results:
		if res.err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", res.err)
		}
		return res.session, nil
	case <-timer.C:
		logger.WarnContext(ctx, "Session restore exceeded ceiling, continuing signed out", "ceiling", ceiling)
		err = ErrRestoreTimeout
	case <-ctx.Done():
		logger.WarnContext(ctx, "Session restore abandoned, request cancelled", "error", ctx.Err())
		err = fmt.Errorf("session restore abandoned: %w", ctx.Err())
	}

	go func() {
		res := <-results
		logger.Info("Late session restore result discarded", "restored", res.err == nil && res.session != nil)
	}()
	return nil, err
}
