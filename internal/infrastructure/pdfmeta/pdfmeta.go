package pdfmeta

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"AplusBackend/internal/ports"
)

// Inspector reads page counts from PDF bytes.
type Inspector struct{}

var _ ports.DocumentInspector = Inspector{}

// PageCount parses data and returns the number of pages.
// The parser panics on some malformed inputs; those come back as errors.
func (Inspector) PageCount(data []byte) (n int, err error) {
	if len(data) == 0 {
		return 0, errors.New("empty document")
	}

	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return reader.NumPage(), nil
}
