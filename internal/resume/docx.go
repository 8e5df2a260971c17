package resume

import (
	"bytes"

	"code.sajari.com/docconv/v2"
)

// docxText returns the body text of a WordprocessingML package, one line per
// paragraph.
func docxText(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return text, nil
}
