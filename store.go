package sentiment

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Artifact blob layout: a 4-byte magic, a version byte, then the gob-encoded
// state. The header lets Load distinguish a corrupt or foreign file from a
// simply absent one.
var artifactMagic = []byte("JSNT")

const artifactVersion = byte(1)

const (
	vectorizerFile = "vectorizer.bin"
	classifierFile = "classifier.bin"
)

// A ModelStore persists the learned vectorizer and classifier as two opaque
// blobs at fixed paths under its directory. Absence is not an error; corrupt
// blobs are.
type ModelStore struct {
	dir    string
	logger zerolog.Logger
}

// NewModelStore creates a store rooted at dir. The directory is created on
// the first Save.
func NewModelStore(dir string, logger zerolog.Logger) *ModelStore {
	return &ModelStore{dir: dir, logger: logger}
}

// Save writes both artifacts. Each blob is written to a temporary file and
// renamed into place, so a crash mid-save never leaves a truncated artifact
// at the well-known path.
func (s *ModelStore) Save(vec *Vectorizer, forest *Forest) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: s.dir, Err: err}
	}
	if err := s.writeBlob(vectorizerFile, vec.state()); err != nil {
		return err
	}
	if err := s.writeBlob(classifierFile, forest.state()); err != nil {
		return err
	}
	s.logger.Info().Str("dir", s.dir).Msg("model artifacts saved")
	return nil
}

// Load restores the persisted pair. It returns (nil, nil, nil) when no prior
// artifact exists, and a PersistenceError when a blob is unreadable.
func (s *ModelStore) Load() (*Vectorizer, *Forest, error) {
	var vs vectorizerState
	ok, err := s.readBlob(vectorizerFile, &vs)
	if err != nil || !ok {
		return nil, nil, err
	}

	var fs forestState
	ok, err = s.readBlob(classifierFile, &fs)
	if err != nil || !ok {
		return nil, nil, err
	}

	vec := vectorizerFromState(vs)
	forest := forestFromState(fs)

	// The blobs are written as a pair but stored as separate files, so a
	// crash between the two writes can leave blobs from different trainings.
	// A classifier that indexes features the vectorizer cannot produce is
	// such a torn pair, not a usable model.
	if maxFeat := forest.maxFeature(); maxFeat >= vec.NumFeatures() {
		return nil, nil, &PersistenceError{
			Op:   "load",
			Path: s.dir,
			Err:  fmt.Errorf("mismatched artifact pair: classifier references feature %d, vectorizer has %d", maxFeat, vec.NumFeatures()),
		}
	}

	s.logger.Info().Str("dir", s.dir).Msg("model artifacts loaded")
	return vec, forest, nil
}

func (s *ModelStore) writeBlob(name string, state any) error {
	path := filepath.Join(s.dir, name)

	var buf bytes.Buffer
	buf.Write(artifactMagic)
	buf.WriteByte(artifactVersion)
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// readBlob decodes one artifact. The boolean reports presence.
func (s *ModelStore) readBlob(name string, state any) (bool, error) {
	path := filepath.Join(s.dir, name)

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	if len(raw) < len(artifactMagic)+1 || !bytes.Equal(raw[:len(artifactMagic)], artifactMagic) {
		return false, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("not a model artifact")}
	}
	if version := raw[len(artifactMagic)]; version != artifactVersion {
		return false, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("unsupported artifact version %d", version)}
	}

	dec := gob.NewDecoder(bytes.NewReader(raw[len(artifactMagic)+1:]))
	if err := dec.Decode(state); err != nil {
		return false, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return true, nil
}
