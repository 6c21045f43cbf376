package manifest

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var bom = []byte("\xef\xbb\xbf")

// ReadDocument читает текст манифеста в дерево узлов.
// Документ без корневого элемента, с несколькими корнями или текстом вне корня
// считается синтаксической ошибкой.
func ReadDocument(raw []byte) (*etree.Document, error) {
	data, err := normalizeEncoding(bytes.TrimPrefix(raw, bom))
	if err != nil {
		return nil, &XMLSyntaxError{Err: err}
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader

	if err = doc.ReadFromBytes(data); err != nil {
		return nil, &XMLSyntaxError{Err: err}
	}
	if err = checkProlog(doc); err != nil {
		return nil, &XMLSyntaxError{Err: err}
	}

	return doc, nil
}

// checkProlog вне корня допустимы только пролог, комментарии и пробелы
func checkProlog(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return errors.Errorf("second root element <%s>", t.FullTag())
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return errors.New("text outside of root element")
			}
		}
	}
	if roots == 0 {
		return errors.New("document has no root element")
	}

	return nil
}

// Parse читает и строит манифест. Возвращает либо полную модель, либо ошибку.
func Parse(raw []byte, opts ...Option) (*Manifest, error) {
	doc, err := ReadDocument(raw)
	if err != nil {
		return nil, err
	}

	return Build(doc, opts...)
}

// charsetReader декодер для кодировки, объявленной в прологе
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported charset %q", label)
	}

	return enc.NewDecoder().Reader(input), nil
}

// normalizeEncoding перекодирует в UTF-8 текст без объявленной кодировки.
// Объявленную кодировку обрабатывает charsetReader при чтении.
func normalizeEncoding(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) || declaresEncoding(raw) {
		return raw, nil
	}

	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return nil, errors.Wrap(err, "detect charset")
	}
	if strings.EqualFold(res.Charset, "UTF-8") {
		return raw, nil
	}

	enc, err := htmlindex.Get(res.Charset)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported charset %q", res.Charset)
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", res.Charset)
	}

	return out, nil
}

func declaresEncoding(raw []byte) bool {
	if !bytes.HasPrefix(raw, []byte("<?xml")) {
		return false
	}
	end := bytes.Index(raw, []byte("?>"))
	if end < 0 {
		return false
	}

	return bytes.Contains(raw[:end], []byte("encoding"))
}
