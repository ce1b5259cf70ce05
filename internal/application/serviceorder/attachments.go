package serviceorder

import (
	"context"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jhoicas/OrdemServico-api/internal/domain"
)

var allowedAttachmentExt = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "pdf": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// AllowedAttachment indica si la extensión del archivo está permitida.
func AllowedAttachment(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return allowedAttachmentExt[ext]
}

// defaultAttachmentBase nombre usado cuando no queda ningún carácter seguro antes de la extensión.
const defaultAttachmentBase = "arquivo"

// SecureFilename deja solo el nombre base con caracteres seguros para una clave de storage.
// Nombre y extensión se limpian por separado para no perder el punto.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := filepath.Ext(name)
	base := cleanFilenamePart(strings.TrimSuffix(name, ext))
	ext = cleanFilenamePart(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return base
	}
	if base == "" {
		base = defaultAttachmentBase
	}
	return base + "." + ext
}

func cleanFilenamePart(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	return strings.Trim(s, "._")
}

// AttachImage sube la foto/documento de la OS como {os_number}_{archivo} y guarda la clave.
func (uc *UseCase) AttachImage(ctx context.Context, id, filename string, data []byte) (string, error) {
	if uc.storage == nil {
		return "", domain.ErrInvalidInput
	}
	if !AllowedAttachment(filename) {
		return "", domain.ErrFileNotAllowed
	}
	safe := SecureFilename(filename)
	if safe == "" || len(data) == 0 {
		return "", domain.ErrInvalidInput
	}

	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", domain.ErrNotFound
	}

	key := order.Number + "_" + safe
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(safe)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := uc.storage.Upload(ctx, key, data, contentType); err != nil {
		return "", err
	}

	if err := uc.orders.SetImageKey(ctx, order.ID, key, uc.now()); err != nil {
		return "", err
	}
	uc.log.Info().Str("os_number", order.Number).Str("key", key).Msg("adjunto de OS guardado")
	return key, nil
}
