package cbor

import (
	"net/url"
	"regexp"
	"time"

	"github.com/creachadair/cbor/errs"
)

// installDefaultTags registers the built-in tag decoders: 11 (Date), 15
// (URI), 23 (Regex), plus the module's own zstd-bytes supplement tag.
func (d *Decoder) installDefaultTags() {
	d.AddSemanticTag(TagDate, decodeDateTag)
	d.AddSemanticTag(TagURI, decodeURITag)
	d.AddSemanticTag(TagRegexp, decodeRegexpTag)
	d.AddSemanticTag(TagZstdBytes, decodeZstdBytesTag)
}

// URLItem wraps a parsed URL as an Item so it can flow through the rest of
// the decode tree like any other reconstructed value. Its fields mirror
// net/url.URL's query-decoding behavior named by spec.
type URLItem struct {
	Raw   string
	URL   *url.URL
	Query url.Values
}

func (URLItem) itemVariant() {}

// decodeDateTag implements the Date tag decoder: a Text inner item is
// parsed as RFC 3339; a Number (Unsigned/Negative/Float) inner item is
// treated as UNIX seconds and converted to milliseconds, per spec.
func decodeDateTag(inner Item) (Item, error) {
	switch v := inner.(type) {
	case Text:
		t, err := time.Parse(time.RFC3339, string(v))
		if err != nil {
			return nil, errs.WithType("unsupported date type: " + err.Error())
		}
		return dateItem{t}, nil
	case Unsigned:
		return dateItem{time.UnixMilli(int64(v) * 1000)}, nil
	case Negative:
		return dateItem{time.UnixMilli(int64(v) * 1000)}, nil
	case Float:
		return dateItem{time.UnixMilli(int64(float64(v) * 1000))}, nil
	default:
		return nil, errs.WithType("unsupported date type")
	}
}

// dateItem wraps a decoded Date tag's reconstructed time.Time.
type dateItem struct {
	Time time.Time
}

func (dateItem) itemVariant() {}

func decodeURITag(inner Item) (Item, error) {
	text, ok := inner.(Text)
	if !ok {
		return nil, errs.WithType("URI tag requires a text inner item")
	}
	u, err := url.Parse(string(text))
	if err != nil {
		return nil, errs.WithType("invalid URI: " + err.Error())
	}
	return URLItem{Raw: string(text), URL: u, Query: u.Query()}, nil
}

// RegexpItem wraps a decoded RegExp tag's compiled pattern.
type RegexpItem struct {
	Regexp *regexp.Regexp
}

func (RegexpItem) itemVariant() {}

func decodeRegexpTag(inner Item) (Item, error) {
	text, ok := inner.(Text)
	if !ok {
		return nil, errs.WithType("RegExp tag requires a text inner item")
	}
	re, err := regexp.Compile(string(text))
	if err != nil {
		return nil, errs.WithType("invalid regular expression: " + err.Error())
	}
	return RegexpItem{Regexp: re}, nil
}

func decodeZstdBytesTag(inner Item) (Item, error) {
	data, ok := inner.(Bytes)
	if !ok {
		return nil, errs.WithType("zstd-bytes tag requires a bytes inner item")
	}
	out, err := decompressZstd(data)
	if err != nil {
		return nil, errs.WithType("zstd decompression failed: " + err.Error())
	}
	return Bytes(out), nil
}
