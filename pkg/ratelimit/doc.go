// Package ratelimit paces calls to the document analysis service.
//
// TokenBucket combines proactive throttling (a golang.org/x/time/rate token
// bucket sized to the account's transactions-per-second quota) with a
// reactive pause: after the service reports throttling, Backoff holds every
// caller until the pause has elapsed.
//
//	limiter := ratelimit.NewTokenBucket(cfg.Textract.RequestsPerSecond, cfg.Textract.Burst)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
