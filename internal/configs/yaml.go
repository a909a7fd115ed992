package configs

import (
	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte, doc *Document) error {
	return yaml.Unmarshal(data, doc)
}

func (yamlCodec) Encode(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
