package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// keyDerivationMessage is signed with the user's SSH key; the hashed signature
// becomes the AES-256 key. Changing it invalidates existing credentials.enc files.
const keyDerivationMessage = "wtldr-credentials-key-v1"

// sealer encrypts small blobs with AES-256-GCM.
// Layout: [nonce][ciphertext+tag].
type sealer struct {
	aead cipher.AEAD
}

func newSSHSealer(keyPath, passphrase string) (*sealer, error) {
	if keyPath == "" {
		return nil, errors.New("security.ssh_key_path is required for the ssh_key method")
	}

	signer, err := loadSigner(keyPath, passphrase)
	if err != nil {
		return nil, err
	}

	key, err := deriveKey(signer)
	if err != nil {
		return nil, err
	}

	return newSealer(key)
}

func newSealer(key []byte) (*sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *sealer) open(data []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(data) < n {
		return nil, errors.New("ciphertext too short")
	}
	return s.aead.Open(nil, data[:n], data[n:], nil)
}

// loadSigner parses a private key, using passphrase only when the key demands one.
func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("invalid SSH key: %w", err)
	}
	if passphrase == "" {
		return nil, fmt.Errorf("SSH key is encrypted - set %s_SSH_PASSPHRASE", EnvPrefix)
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key (wrong passphrase?): %w", err)
	}
	return signer, nil
}

// deriveKey hashes a signature over a fixed message. Ed25519 and RSA PKCS#1 v1.5
// signatures are deterministic, so the same key always yields the same AES key.
func deriveKey(signer ssh.Signer) ([]byte, error) {
	sig, err := signer.Sign(rand.Reader, []byte(keyDerivationMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to sign key derivation message: %w", err)
	}
	sum := sha256.Sum256(sig.Blob)
	return sum[:], nil
}
