package utils

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
)

// Content-addressed blob store: each uploaded file is written once under
// UPLOAD_PATH/objects keyed by the md5 of its bytes, so identical uploads
// deduplicate naturally.

func uploadRoot() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return filepath.Join(uploadPath, "objects")
}

// ContentHash returns the hex md5 digest used as the storage key.
func ContentHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SaveContent stores data under its content hash and returns the hash.
// Writing an already-stored blob is a no-op.
func SaveContent(data []byte) (string, error) {
	hash := ContentHash(data)
	root := uploadRoot()
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return "", err
	}

	path := filepath.Join(root, hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return hash, nil
}

// ReadContent loads a stored blob by its content hash.
func ReadContent(hash string) ([]byte, error) {
	return os.ReadFile(filepath.Join(uploadRoot(), hash))
}
