package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownFormat is returned for replay files that are neither JSON nor msgpack
var ErrUnknownFormat = errors.New("unknown replay format")

// Format is a replay file encoding
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

// FormatFor picks the encoding from the file extension
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// Encode writes data to w
func Encode(w io.Writer, f Format, data *ReplayData) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(data)
	}
	return ErrUnknownFormat
}

// Decode reads replay data from r
func Decode(r io.Reader, f Format) (*ReplayData, error) {
	var data ReplayData
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&data)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&data)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	return &data, nil
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	f, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file, f)
}

// SaveReplay writes replay data to a file
func SaveReplay(filename string, data *ReplayData) error {
	f, err := FormatFor(filename)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Encode(file, f, data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return file.Close()
}
