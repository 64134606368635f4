package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads credentials from environment variables. The
// AWS_KEY_ID/AWS_SECRET_KEY pair takes precedence over the standard AWS
// variable names.
type EnvironmentStore struct{}

// EnvAccountName is the name reported for environment credentials
const EnvAccountName = "env"

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables. Only the empty
// name and "env" resolve here.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	if name != "" && name != EnvAccountName {
		return nil, ErrCredentialsNotFound
	}
	keyID := firstEnv("AWS_KEY_ID", "AWS_ACCESS_KEY_ID")
	secret := firstEnv("AWS_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")
	if keyID == "" || secret == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Name:            EnvAccountName,
		AccessKeyID:     keyID,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Region:          firstEnv("AWS_REGION", "AWS_DEFAULT_REGION"),
		LastModified:    time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	if name != "" && name != EnvAccountName {
		return false
	}
	return firstEnv("AWS_KEY_ID", "AWS_ACCESS_KEY_ID") != "" &&
		firstEnv("AWS_SECRET_KEY", "AWS_SECRET_ACCESS_KEY") != ""
}
