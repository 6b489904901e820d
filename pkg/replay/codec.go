package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Replay files start with a four byte magic and a one byte format
// version, followed by a zstd compressed JSON body.
var magic = [4]byte{'A', 'G', 'R', 'P'}

const formatVersion = 1

// ErrInvalidFormat means the data is not a replay or uses a format
// version this build does not understand.
type ErrInvalidFormat struct {
	Reason string
}

func (e ErrInvalidFormat) Error() string {
	return fmt.Sprintf("invalid replay format: %s", e.Reason)
}

// IsInvalidFormat returns true if err is an ErrInvalidFormat.
func IsInvalidFormat(err error) bool {
	var e ErrInvalidFormat
	return errors.As(err, &e)
}

// Encode writes the framed, compressed game to w.
func Encode(w io.Writer, game *Game) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("failed to write replay magic: %v", err)
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return fmt.Errorf("failed to write replay version: %v", err)
	}
	compWriter, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if err := json.NewEncoder(compWriter).Encode(game); err != nil {
		compWriter.Close()
		return fmt.Errorf("failed to encode replay: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %v", err)
	}
	return nil
}

// Decode reads a framed, compressed game from r.
func Decode(r io.Reader) (*Game, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, ErrInvalidFormat{Reason: "truncated header"}
	}
	if !bytes.Equal(header[:4], magic[:]) {
		return nil, ErrInvalidFormat{Reason: "bad magic"}
	}
	if header[4] != formatVersion {
		return nil, ErrInvalidFormat{Reason: fmt.Sprintf("unsupported version %d", header[4])}
	}
	compReader, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	game := &Game{}
	if err := json.NewDecoder(compReader).Decode(game); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %v", err)
	}
	return game, nil
}

// Marshal encodes the game to a byte slice.
func Marshal(game *Game) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(buf, game); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a game from a byte slice.
func Unmarshal(data []byte) (*Game, error) {
	return Decode(bytes.NewReader(data))
}
