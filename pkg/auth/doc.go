// Package auth stores AWS credentials for the document analysis client.
//
// A Manager tries the system keyring first, then a vault file under the
// per-user docharvest data directory, then the environment (AWS_KEY_ID and
// AWS_SECRET_KEY, or the standard AWS variables). Each account in the vault
// is sealed on its own with AES-GCM, keyed by PBKDF2 over
// DOCHARVEST_PASSPHRASE or a generated passphrase stored next to the vault.
package auth
