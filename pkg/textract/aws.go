package textract

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"

	"docharvest/pkg/auth"
)

// NewAWSAPI builds the SDK client. Explicit account credentials take
// precedence over the default AWS credential chain. The SDK's own retries
// are disabled since Client retries itself.
func NewAWSAPI(ctx context.Context, region string, account *auth.Account) (*textract.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(1),
	}

	if account != nil && account.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(account.AccessKeyID, account.SecretAccessKey, account.SessionToken),
		))
		if region == "" {
			region = account.Region
		}
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured")
	}

	return textract.NewFromConfig(cfg, func(o *textract.Options) {
		o.RetryMaxAttempts = 1
		o.RetryMode = aws.RetryModeStandard
	}), nil
}
