// Package retry provides exponential backoff and retry logic for calls to
// remote services that can fail transiently, such as document analysis
// requests that get throttled.
//
//	cfg := retry.FromConfig(appConfig.Retry, log)
//	page, err := retry.DoWithResult(ctx, func(ctx context.Context) (document.Page, error) {
//		return client.Analyze(ctx, data)
//	}, cfg)
//
// Errors typed with docharvest/pkg/errors are retried according to
// errors.IsRetryable; context cancellation is never retried. A final failure
// is returned as *retry.Error carrying the number of attempts made.
//
// Wait and WaitBetween are context-aware sleeps, also used for randomized
// pacing in the scraper.
package retry
