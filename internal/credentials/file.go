package credentials

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const saltLen = 16

// FileStore keeps the token in a single encrypted file. The file layout is
// salt || nonce || ciphertext; the key is derived from the passphrase with
// scrypt using the per-file salt.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
}

func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{path: path, passphrase: passphrase}
}

func (f *FileStore) Get() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	if len(raw) < saltLen+chacha20poly1305.NonceSizeX {
		return "", false
	}

	salt := raw[:saltLen]
	nonce := raw[saltLen : saltLen+chacha20poly1305.NonceSizeX]
	sealed := raw[saltLen+chacha20poly1305.NonceSizeX:]

	aead, err := f.aead(salt)
	if err != nil {
		return "", false
	}
	token, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", false
	}
	return string(token), true
}

func (f *FileStore) Set(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	aead, err := f.aead(salt)
	if err != nil {
		return err
	}
	sealed := aead.Seal(nil, nonce, []byte(token), nil)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	out := make([]byte, 0, saltLen+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	if err := os.WriteFile(f.path, out, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (f *FileStore) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

func (f *FileStore) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(f.passphrase), salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}
