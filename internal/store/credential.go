// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	credentialFile = "credentials"
	saltFile       = "credentials.salt"

	// encryptedPrefix marks a stored value as AES-GCM encrypted:
	// ENC:base64(nonce|ciphertext|tag).
	encryptedPrefix = "ENC:"

	nonceSize        = 12
	keySize          = 32
	saltSize         = 32
	pbkdf2Iterations = 600_000

	// EnvAPIKey and EnvAPIKeyAlt override the stored credential.
	EnvAPIKey    = "FULLTASK_API_KEY"
	EnvAPIKeyAlt = "OPENAI_API_KEY"
)

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// CredentialStore persists the upstream API key encrypted at rest.
//
// The encryption key is derived from stable machine identity (hostname and
// home directory) plus a random per-install salt. This ties the file to the
// machine and keeps the key out of plain text; it is not a substitute for an
// OS keychain.
type CredentialStore struct {
	path     string
	saltPath string
}

// NewCredentialStore creates a credential store rooted at dir. An empty dir
// selects DefaultDir.
func NewCredentialStore(dir string) (*CredentialStore, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return &CredentialStore{
		path:     filepath.Join(dir, credentialFile),
		saltPath: filepath.Join(dir, saltFile),
	}, nil
}

// APIKey returns the configured API key, or "" when none is configured.
// Environment variables take precedence over the stored credential.
func (c *CredentialStore) APIKey() (string, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return strings.TrimSpace(key), nil
	}
	if key := os.Getenv(EnvAPIKeyAlt); key != "" {
		return strings.TrimSpace(key), nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if !strings.HasPrefix(value, encryptedPrefix) {
		// Legacy plain-text value written by hand; honor it.
		return value, nil
	}
	return c.decrypt(strings.TrimPrefix(value, encryptedPrefix))
}

// Configured reports whether an API key is available from any source.
func (c *CredentialStore) Configured() bool {
	key, err := c.APIKey()
	return err == nil && key != ""
}

// SetAPIKey stores the API key encrypted at rest.
func (c *CredentialStore) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key is empty")
	}
	encrypted, err := c.encrypt(key)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(c.path, []byte(encryptedPrefix+encrypted), 0600)
}

// Clear removes the stored credential. Clearing an absent credential is not
// an error.
func (c *CredentialStore) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	if err := os.Remove(c.saltPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove salt file: %w", err)
	}
	return nil
}

// Path returns the backing credential file path.
func (c *CredentialStore) Path() string {
	return c.path
}

// =============================================================================
// ENCRYPTION
// =============================================================================

func (c *CredentialStore) encrypt(plaintext string) (string, error) {
	salt, err := c.loadOrCreateSalt()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to initialize GCM: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *CredentialStore) decrypt(encoded string) (string, error) {
	salt, err := os.ReadFile(c.saltPath)
	if err != nil {
		return "", fmt.Errorf("credential salt missing: %w", err)
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("malformed credential file: %w", err)
	}
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("malformed credential file: truncated")
	}

	block, err := aes.NewCipher(deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to initialize GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return string(plaintext), nil
}

func (c *CredentialStore) loadOrCreateSalt() ([]byte, error) {
	salt, err := os.ReadFile(c.saltPath)
	if err == nil && len(salt) == saltSize {
		return salt, nil
	}

	salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := util.AtomicWriteFile(c.saltPath, salt, 0600); err != nil {
		return nil, fmt.Errorf("failed to save salt: %w", err)
	}
	return salt, nil
}

// deriveKey derives the AES key from machine identity and the per-install
// salt using PBKDF2-SHA-256.
func deriveKey(salt []byte) []byte {
	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	secret := "fulltask:" + hostname + ":" + home
	return pbkdf2.Key([]byte(secret), salt, pbkdf2Iterations, keySize, sha256.New)
}
