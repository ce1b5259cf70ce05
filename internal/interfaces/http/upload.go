package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
)

var errMissingFile = errors.New("nenhum arquivo selecionado")

// readUpload lee el archivo multipart del campo "file".
func readUpload(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return "", nil, errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}
