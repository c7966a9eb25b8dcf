package corpus

import (
	"errors"
	"fmt"
	"golang.org/x/text/encoding/charmap"
	"io"
	"io/fs"
	"os"
	"strings"
)

type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin1"
)

var ErrFileNotFound = errors.New("file not found")

func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return EncodingLatin1, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", name)
}

// NewReader decodes r into UTF-8 text.
func NewReader(r io.Reader, enc Encoding) io.Reader {
	if enc == EncodingLatin1 {
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	return r
}

// Open opens a corpus file. A missing file yields an error matching both
// ErrFileNotFound and fs.ErrNotExist.
func Open(path string, enc Encoding) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, err
	}
	return readCloser{Reader: NewReader(f, enc), Closer: f}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func LoadTokens(path string, enc Encoding) ([]TaggedToken, error) {
	f, err := Open(path, enc)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tokens, err := ReadTokens(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tokens, nil
}

func LoadWords(path string, enc Encoding, tagged bool) ([]string, error) {
	f, err := Open(path, enc)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	words, err := ReadWords(f, tagged)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

func LoadTags(path string, enc Encoding) (ProcessedSequence, error) {
	f, err := Open(path, enc)
	if err != nil {
		return ProcessedSequence{}, err
	}
	defer f.Close()
	seq, err := ReadTags(f)
	if err != nil {
		return ProcessedSequence{}, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}
