package configs

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

type tomlCodec struct{}

func (tomlCodec) Decode(data []byte, doc *Document) error {
	_, err := toml.Decode(string(data), doc)
	return err
}

func (tomlCodec) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
