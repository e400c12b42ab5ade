// Package secrets keeps admin API tokens outside the config file.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Tokens live in a per-user 0600 file, sealed with AES-GCM under a key derived
// from the user and OS. This keeps them out of plain-text config; it is not a
// keychain.

const fileName = "tokens.json"

// ErrNoToken is returned when nothing is stored for an API.
var ErrNoToken = errors.New("token not found")

// tokenFile maps scheme://host to a base64 sealed token.
type tokenFile struct {
	path   string
	Tokens map[string]string `json:"tokens"`
}

// StoreToken saves the admin token used against the API at apiURL.
func StoreToken(apiURL, token string) error {
	host, err := hostKey(apiURL)
	if err != nil {
		return err
	}
	tf, err := openFile()
	if err != nil {
		return err
	}
	sealed, err := seal(host, []byte(token))
	if err != nil {
		return err
	}
	tf.Tokens[host] = base64.StdEncoding.EncodeToString(sealed)
	return tf.write()
}

// FetchToken returns the stored admin token for apiURL, or ErrNoToken.
func FetchToken(apiURL string) (string, error) {
	host, err := hostKey(apiURL)
	if err != nil {
		return "", err
	}
	tf, err := openFile()
	if err != nil {
		return "", err
	}
	enc, ok := tf.Tokens[host]
	if !ok {
		return "", ErrNoToken
	}
	sealed, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("token for %s: %w", host, err)
	}
	plain, err := open(host, sealed)
	if err != nil {
		return "", fmt.Errorf("token for %s: %w", host, err)
	}
	return string(plain), nil
}

// DeleteToken forgets the token for apiURL. Deleting a missing token is not an
// error.
func DeleteToken(apiURL string) error {
	host, err := hostKey(apiURL)
	if err != nil {
		return err
	}
	tf, err := openFile()
	if err != nil {
		return err
	}
	if _, ok := tf.Tokens[host]; !ok {
		return nil
	}
	delete(tf.Tokens, host)
	return tf.write()
}

// hostKey reduces an API URL to scheme://host so /api paths share one token.
func hostKey(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("api url %q has no host", apiURL)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

// openFile reads the token file, returning an empty one when it does not exist.
func openFile() (*tokenFile, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "showcase")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	tf := &tokenFile{path: filepath.Join(dir, fileName), Tokens: map[string]string{}}
	data, err := os.ReadFile(tf.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return tf, nil
	case err != nil:
		return nil, err
	}
	if err := json.Unmarshal(data, tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", tf.path, err)
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]string{}
	}
	return tf, nil
}

// write replaces the file atomically.
func (tf *tokenFile) write() error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := tf.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, tf.path)
}

func aead() (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(fmt.Sprintf("showcase-%s-%s", runtime.GOOS, os.Getenv("USER"))))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal binds the ciphertext to host, so a token copied to another entry fails
// to open.
func seal(host string, plain []byte) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, []byte(host)), nil
}

func open(host string, sealed []byte) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}
	n := gcm.NonceSize()
	if len(sealed) < n {
		return nil, errors.New("sealed token too short")
	}
	return gcm.Open(nil, sealed[:n], sealed[n:], []byte(host))
}
