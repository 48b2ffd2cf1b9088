// Package encoding converts uploaded text files of unknown charset to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// decoders maps chardet charset names to decoders. Anything missing falls back to
// Windows-1252, the usual charset of spreadsheet CSV exports.
var decoders = map[string]xenc.Encoding{
	UTF16LE:       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:       unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1":  charmap.Windows1252,
	Windows1252:   charmap.Windows1252,
	"ISO-8859-15": charmap.ISO8859_15,
	"ISO-8859-9":  charmap.ISO8859_9,
}

// Decode returns a UTF-8 reader over r and the charset it was decoded from.
// A byte order mark wins, then valid UTF-8, then chardet's best guess.
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.charset == UTF8 {
			_, _ = br.Discard(len(bom.prefix))
			return br, UTF8, nil
		}

		return transform.NewReader(br, decoders[bom.charset].NewDecoder()), bom.charset, nil
	}

	if validUTF8(head, len(head) == sniffLen) {
		return br, UTF8, nil
	}

	charset := Windows1252

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if res.Charset == UTF8 {
			return br, UTF8, nil
		}

		if _, ok := decoders[res.Charset]; ok {
			charset = res.Charset
		}
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
}

// validUTF8 tolerates a rune cut in half at the end of a truncated sniff window.
func validUTF8(b []byte, truncated bool) bool {
	if !truncated {
		return utf8.Valid(b)
	}

	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}

		b = b[:len(b)-1]
	}

	return false
}
