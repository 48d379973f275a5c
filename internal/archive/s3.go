package archive

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/pbkdf2"

	"github.com/local/scanbind/internal/config"
)

// Sealed payload layout: magic (8) + salt (16) + nonce (12) + AES-GCM
// ciphertext with tag. The key derives from the password via PBKDF2-SHA256.
const (
	encMagic  = "SCBNDGCM"
	saltLen   = 16
	kdfRounds = 100000
	keyLen    = 32
)

// Store uploads a finished document to the configured bucket and returns its
// s3:// URL. With a password configured the payload is sealed first.
func Store(ctx context.Context, cfg config.ArchiveConfig, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	encrypted := false
	if cfg.Password != "" {
		if data, err = seal(data, cfg.Password); err != nil {
			return "", fmt.Errorf("encrypt document: %w", err)
		}
		encrypted = true
	}

	name := filepath.Base(path)
	key := name
	if cfg.Prefix != "" {
		key = strings.TrimSuffix(cfg.Prefix, "/") + "/" + name
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}
	uploader := manager.NewUploader(s3.NewFromConfig(awsCfg))

	meta := map[string]string{
		"name":      name,
		"encrypted": fmt.Sprintf("%t", encrypted),
		"created":   time.Now().UTC().Format(time.RFC3339),
	}
	if encrypted {
		meta["encryption-format"] = encMagic
	}

	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
		Metadata:    meta,
	}); err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	url := fmt.Sprintf("s3://%s/%s", cfg.Bucket, key)
	log.Info().
		Str("key", key).
		Int("size", len(data)).
		Bool("encrypted", encrypted).
		Msg("archived document")
	return url, nil
}

func seal(data []byte, password string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, kdfRounds, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(encMagic)+len(salt)+len(nonce)+len(data)+gcm.Overhead())
	out = append(out, encMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, data, nil), nil
}
