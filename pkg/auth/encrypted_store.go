package auth

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"docharvest/pkg/storage"
)

const (
	vaultVersion    = 2
	vaultFile       = "accounts.vault"
	passphraseFile  = ".passphrase"
	saltSize        = 32
	keySize         = 32
	kdfIterations   = 210000
	passphraseBytes = 32
)

// EncryptedFileStore keeps accounts in a vault file. Every account is sealed
// separately with AES-GCM under a PBKDF2 key, using the account name as
// additional data so a sealed entry cannot be moved to another name.
type EncryptedFileStore struct {
	dir        string
	passphrase []byte

	mu sync.RWMutex

	keyMu sync.Mutex
	salt  []byte
	key   []byte
}

// vault is the on-disk layout. Byte slices are base64 in JSON.
type vault struct {
	Version    int               `json:"version"`
	Salt       []byte            `json:"salt"`
	Iterations int               `json:"iterations"`
	Accounts   map[string][]byte `json:"accounts"`
	Modified   time.Time         `json:"modified"`
}

// NewEncryptedFileStore opens the vault in dir. The passphrase comes from
// DOCHARVEST_PASSPHRASE, else from a generated file next to the vault.
func NewEncryptedFileStore(dir string) (*EncryptedFileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	passphrase, err := loadPassphrase(dir)
	if err != nil {
		return nil, err
	}
	return &EncryptedFileStore{dir: dir, passphrase: passphrase}, nil
}

func (e *EncryptedFileStore) path() string {
	return filepath.Join(e.dir, vaultFile)
}

// Store seals account into the vault, replacing an entry with the same name
func (e *EncryptedFileStore) Store(account *Account) error {
	if account == nil {
		return ErrInvalidCredentials
	}
	if err := account.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.load()
	if err != nil {
		return err
	}
	sealed, err := e.seal(v, account)
	if err != nil {
		return err
	}
	v.Accounts[account.Name] = sealed
	return e.save(v)
}

// Retrieve opens the named account
func (e *EncryptedFileStore) Retrieve(name string) (*Account, error) {
	if name == "" {
		return nil, ErrInvalidCredentials
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	v, err := e.load()
	if err != nil {
		return nil, err
	}
	sealed, ok := v.Accounts[name]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return e.open(v, name, sealed)
}

// List opens every account, sorted by name
func (e *EncryptedFileStore) List() ([]*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, err := e.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(v.Accounts))
	for name := range v.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	accounts := make([]*Account, 0, len(names))
	for _, name := range names {
		account, err := e.open(v, name, v.Accounts[name])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Delete removes the named account. The vault file goes with the last one.
func (e *EncryptedFileStore) Delete(name string) error {
	if name == "" {
		return ErrInvalidCredentials
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.load()
	if err != nil {
		return err
	}
	if _, ok := v.Accounts[name]; !ok {
		return ErrCredentialsNotFound
	}
	delete(v.Accounts, name)

	if len(v.Accounts) == 0 {
		if err := os.Remove(e.path()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove vault: %w", err)
		}
		return nil
	}
	return e.save(v)
}

// Exists reports whether the vault holds name, without opening it
func (e *EncryptedFileStore) Exists(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, err := e.load()
	if err != nil {
		return false
	}
	_, ok := v.Accounts[name]
	return ok
}

// load reads the vault. A missing file is an empty vault with a fresh salt.
func (e *EncryptedFileStore) load() (*vault, error) {
	content, err := os.ReadFile(e.path())
	if os.IsNotExist(err) {
		salt := make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		return &vault{
			Version:    vaultVersion,
			Salt:       salt,
			Iterations: kdfIterations,
			Accounts:   map[string][]byte{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	var v vault
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vault: %w", err)
	}
	if v.Version != vaultVersion {
		return nil, fmt.Errorf("unsupported vault version %d", v.Version)
	}
	if len(v.Salt) == 0 || v.Iterations <= 0 {
		return nil, errors.New("vault is missing its key parameters")
	}
	if v.Accounts == nil {
		v.Accounts = map[string][]byte{}
	}
	return &v, nil
}

func (e *EncryptedFileStore) save(v *vault) error {
	v.Modified = time.Now().UTC()
	data, err := storage.EncodeJSON(v)
	if err != nil {
		return err
	}
	if err := storage.WriteAtomic(e.path(), bytes.NewReader(data), 0600); err != nil {
		return fmt.Errorf("failed to write vault: %w", err)
	}
	return nil
}

// cipherFor derives the vault key once per salt
func (e *EncryptedFileStore) cipherFor(v *vault) (cipher.AEAD, error) {
	e.keyMu.Lock()
	defer e.keyMu.Unlock()

	if e.key == nil || !bytes.Equal(e.salt, v.Salt) {
		e.key = pbkdf2.Key(e.passphrase, v.Salt, v.Iterations, keySize, sha256.New)
		e.salt = append([]byte(nil), v.Salt...)
	}
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (e *EncryptedFileStore) seal(v *vault, account *Account) ([]byte, error) {
	aead, err := e.cipherFor(v)
	if err != nil {
		return nil, err
	}
	plaintext, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, []byte(account.Name)), nil
}

func (e *EncryptedFileStore) open(v *vault, name string, sealed []byte) (*Account, error) {
	aead, err := e.cipherFor(v)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: vault entry %q is truncated", ErrInvalidCredentials, name)
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open vault entry %q", ErrInvalidCredentials, name)
	}

	var account Account
	if err := json.Unmarshal(plaintext, &account); err != nil {
		return nil, fmt.Errorf("failed to decode account %q: %w", name, err)
	}
	return &account, nil
}

// loadPassphrase prefers DOCHARVEST_PASSPHRASE and otherwise reads, or
// creates, a random passphrase file in dir
func loadPassphrase(dir string) ([]byte, error) {
	if pass := os.Getenv("DOCHARVEST_PASSPHRASE"); pass != "" {
		return []byte(pass), nil
	}

	path := filepath.Join(dir, passphraseFile)
	if content, err := os.ReadFile(path); err == nil && len(content) > 0 {
		return content, nil
	}

	raw := make([]byte, passphraseBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate passphrase: %w", err)
	}
	pass := []byte(base64.RawURLEncoding.EncodeToString(raw))
	if err := storage.WriteAtomic(path, bytes.NewReader(pass), 0600); err != nil {
		return nil, fmt.Errorf("failed to save passphrase: %w", err)
	}
	return pass, nil
}
