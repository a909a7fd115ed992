package configs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"
)

// Load reads and parses the configuration document at path.
// Returns ErrConfigNotFound if the file does not exist, ErrInvalidDocument
// if it cannot be parsed and ErrUnknownMode for an unrecognised type.
func Load(path string) (*Document, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	doc := &Document{}
	if err := codec.Decode(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidDocument, filepath.Base(path), err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// documentFile is the part of *os.File that Save writes through.
type documentFile interface {
	io.Writer
	Chmod(mode fs.FileMode) error
	Close() error
}

var createFile = func(path string) (documentFile, error) {
	return os.Create(path)
}

// Save serializes doc over the file at path.
//
// The write is a plain truncate-and-write: a failure midway can leave a
// corrupt file behind.
func Save(path string, doc *Document) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}

	data, err := codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", kerrors.ErrPersistFailed, err)
	}

	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPersistFailed, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("%w: %v", kerrors.ErrPersistFailed, err)
	}

	// Documents hold credentials, even when protected.
	if err := file.Chmod(0600); err != nil {
		file.Close()
		return fmt.Errorf("%w: %v", kerrors.ErrPersistFailed, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: closing: %v", kerrors.ErrPersistFailed, err)
	}

	return nil
}
