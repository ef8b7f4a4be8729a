package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Images travel through the API as data URIs (data:<mime>;base64,<payload>).
// The provider wants raw bytes, so the prefix is stripped before transmission
// and re-attached when a generated image is handed back to the client.

const defaultImageMIME = "image/jpeg"

// decodeDataURI splits a data URI into its mime type and decoded bytes.
// Bare base64 without a prefix is tolerated and assumed to be JPEG.
func decodeDataURI(s string) (mimeType string, data []byte, err error) {
	mimeType = defaultImageMIME
	payload := s
	if strings.HasPrefix(s, "data:") {
		rest := strings.TrimPrefix(s, "data:")
		meta, b64, ok := strings.Cut(rest, ",")
		if !ok {
			return "", nil, fmt.Errorf("malformed data URI")
		}
		meta = strings.TrimSuffix(meta, ";base64")
		if meta != "" {
			mimeType = meta
		}
		payload = b64
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return mimeType, data, nil
}

// encodeDataURI builds a data URI for raw image bytes.
func encodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
