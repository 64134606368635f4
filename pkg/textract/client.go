package textract

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/aws/smithy-go"

	"docharvest/pkg/document"
	errs "docharvest/pkg/errors"
	"docharvest/pkg/logger"
	"docharvest/pkg/ratelimit"
	"docharvest/pkg/retry"
)

// AnalyzeAPI is the part of the Textract SDK client used here
type AnalyzeAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// DefaultFeatureTypes requests both tables and forms
var DefaultFeatureTypes = []string{string(types.FeatureTypeTables), string(types.FeatureTypeForms)}

// throttlePause is how long every caller holds off after a throttling error
const throttlePause = 2 * time.Second

// Client analyzes single page documents with retry and rate limiting
type Client struct {
	api      AnalyzeAPI
	features []string
	limiter  ratelimit.Limiter
	retry    *retry.Config
	logger   logger.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithFeatureTypes overrides the requested analysis features
func WithFeatureTypes(features []string) ClientOption {
	return func(c *Client) {
		if len(features) > 0 {
			c.features = features
		}
	}
}

// WithLimiter sets the request rate limiter
func WithLimiter(l ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithRetry sets the retry policy
func WithRetry(cfg *retry.Config) ClientOption {
	return func(c *Client) {
		if cfg != nil {
			c.retry = cfg
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient wraps api
func NewClient(api AnalyzeAPI, opts ...ClientOption) *Client {
	c := &Client{
		api:      api,
		features: DefaultFeatureTypes,
		limiter:  ratelimit.NewTokenBucket(1, 1),
		retry:    retry.DefaultConfig(),
		logger:   logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Features returns the requested feature types
func (c *Client) Features() []string {
	return c.features
}

// Analyze sends content for synchronous analysis and converts the returned
// blocks. Throttling, server and transport failures are retried.
func (c *Client) Analyze(ctx context.Context, content []byte) (document.Page, error) {
	features := make([]types.FeatureType, len(c.features))
	for i, f := range c.features {
		features[i] = types.FeatureType(f)
	}
	input := &textract.AnalyzeDocumentInput{
		Document:     &types.Document{Bytes: content},
		FeatureTypes: features,
	}

	cfg := *c.retry
	if cfg.Logger == nil {
		cfg.Logger = c.logger
	}

	return retry.DoWithResult(ctx, func(ctx context.Context) (document.Page, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return document.Page{}, err
		}

		started := time.Now()
		out, err := c.api.AnalyzeDocument(ctx, input)
		if err != nil {
			classified := c.classify(err)
			c.logger.WarnWithFields("analyze document failed", map[string]interface{}{
				"error_type": string(errs.TypeOf(classified)),
				"error":      err.Error(),
			})
			return document.Page{}, classified
		}

		page := document.Page{Blocks: ConvertBlocks(out.Blocks)}
		c.logger.DebugWithFields("document analyzed", map[string]interface{}{
			"blocks":      len(page.Blocks),
			"duration_ms": time.Since(started).Milliseconds(),
		})
		return page, nil
	}, &cfg)
}

// classify maps SDK failures onto error types so the retry policy can tell
// transient problems from permanent ones
func (c *Client) classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		t := errorTypeForCode(apiErr.ErrorCode(), apiErr.ErrorFault())
		if t == errs.ErrorTypeThrottling {
			c.limiter.Backoff(throttlePause)
		}
		e := errs.New(t, apiErr.ErrorMessage(), err)
		e.Code = apiErr.ErrorCode()
		return e
	}

	// no API error means the request never got a response
	return errs.New(errs.ErrorTypeNetwork, "request failed", err)
}

func errorTypeForCode(code string, fault smithy.ErrorFault) errs.ErrorType {
	switch code {
	case "ThrottlingException", "ProvisionedThroughputExceededException", "LimitExceededException":
		return errs.ErrorTypeThrottling
	case "InternalServerError", "ServiceUnavailableException":
		return errs.ErrorTypeServerError
	case "AccessDeniedException", "UnrecognizedClientException", "InvalidSignatureException",
		"ExpiredTokenException", "InvalidClientTokenId":
		return errs.ErrorTypeAuth
	case "InvalidParameterException", "BadDocumentException", "UnsupportedDocumentException",
		"DocumentTooLargeException", "InvalidS3ObjectException":
		return errs.ErrorTypeInvalidInput
	}
	switch fault {
	case smithy.FaultServer:
		return errs.ErrorTypeServerError
	case smithy.FaultClient:
		return errs.ErrorTypeInvalidInput
	}
	return errs.ErrorTypeUnknown
}
