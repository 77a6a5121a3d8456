package verification

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	errNotDataURI   = errors.New("image must be a base64 data URI")
	errNotImageData = errors.New("decoded data is not an image")
)

// decodedImage is a validated inline image
type decodedImage struct {
	Data    []byte
	MIME    string
	DataURI string
}

// decodeDataURI validates a "data:<mime>;base64,<payload>" string. The MIME
// type is taken from the decoded bytes, not the declared prefix, and must be
// image/*. The returned DataURI is rebuilt with the detected type.
func decodeDataURI(dataURI string) (*decodedImage, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, errNotDataURI
	}

	header, payload, ok := strings.Cut(dataURI[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, errNotDataURI
	}

	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, errNotImageData
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", errNotImageData, detected.String())
	}

	mime := detected.String()
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}

	return &decodedImage{
		Data:    data,
		MIME:    mime,
		DataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
