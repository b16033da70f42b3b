// Package encoding normalises uploaded text files to UTF-8.
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

const sniffLen = 4096

type bom struct {
	mark []byte
	// enc is nil for the UTF-8 mark, which is only stripped.
	enc xenc.Encoding
}

var boms = []bom{
	{mark: []byte{0xEF, 0xBB, 0xBF}},
	{mark: []byte{0xFF, 0xFE}, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{mark: []byte{0xFE, 0xFF}, enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// charsets maps chardet results to decoders. UTF-8 needs no decoding.
var charsets = map[string]xenc.Encoding{
	"UTF-8":        xenc.Nop,
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// Fallback is used when the charset can't be worked out. Bank exports that
// are not UTF-8 are almost always Windows-1252.
var Fallback xenc.Encoding = charmap.Windows1252

// NewUTF8Reader returns a reader yielding r's content as UTF-8. A byte order
// mark wins, then valid UTF-8 is passed through, then chardet is asked, and
// finally Fallback is assumed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(head, b.mark) {
			continue
		}

		if b.enc == nil {
			_, _ = br.Discard(len(b.mark))
			return br, nil
		}

		return transform.NewReader(br, b.enc.NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return decode(br, Detect(head)), nil
}

// Detect guesses the encoding of a sample that is not valid UTF-8.
func Detect(sample []byte) xenc.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Fallback
	}

	if enc, ok := charsets[result.Charset]; ok {
		return enc
	}

	return Fallback
}

func decode(r io.Reader, enc xenc.Encoding) io.Reader {
	if enc == xenc.Nop {
		return r
	}

	return transform.NewReader(r, enc.NewDecoder())
}
