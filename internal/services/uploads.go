package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/storage"
)

// MaxUploadSize caps every uploaded file.
const MaxUploadSize = 5 << 20

var (
	documentExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".jpg": true, ".jpeg": true, ".png": true}
	imageExtensions    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
)

var ErrFileTooLarge = &Error{Kind: ErrValidation, Message: "File too large. Maximum file size is 5MB."}

// Upload is one file taken from a multipart form.
type Upload struct {
	Field    string
	Filename string
	Size     int64
	Body     io.Reader
	Caption  string
}

func checkUpload(u Upload, allowed map[string]bool, kind string) (string, error) {
	if u.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(path.Ext(u.Filename))
	if !allowed[ext] {
		return "", validation(fmt.Sprintf("Invalid file type for %s. Allowed: %s", u.Field, kind))
	}
	return ext, nil
}

// saveUploads stores each upload under prefix/<field>-<uuid><ext> and returns
// the keys in order. Already saved files are removed when a later one fails.
func saveUploads(ctx context.Context, store storage.Driver, prefix string, uploads []Upload, allowed map[string]bool, kind string) ([]string, error) {
	for _, u := range uploads {
		if _, err := checkUpload(u, allowed, kind); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(uploads))
	for _, u := range uploads {
		ext := strings.ToLower(path.Ext(u.Filename))
		key := fmt.Sprintf("%s/%s-%s%s", prefix, u.Field, uuid.NewString(), ext)
		if err := store.Save(ctx, key, u.Body, storage.ContentType(key)); err != nil {
			removeFiles(ctx, store, keys)
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// removeFiles deletes stored objects, logging failures.
func removeFiles(ctx context.Context, store storage.Driver, keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			logger.FromContext(ctx).WithError(err).WithField("key", key).Warn("could not delete stored file")
		}
	}
}
