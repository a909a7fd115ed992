package configs

import (
	"fmt"
	"path/filepath"
	"strings"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
)

// Codec converts between a Document and its on-disk representation.
type Codec interface {
	Decode(data []byte, doc *Document) error
	Encode(doc *Document) ([]byte, error)
}

var codecs = map[string]Codec{
	".xml":  xmlCodec{},
	".toml": tomlCodec{},
	".yaml": yamlCodec{},
	".yml":  yamlCodec{},
}

// CodecFor picks the codec for path by its extension.
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	codec, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnsupportedFormat, ext)
	}
	return codec, nil
}
