package extract

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

func extractDOCX(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtraction, err)
	}
	return text, nil
}
