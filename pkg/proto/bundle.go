package proto

import (
	"bytes"
	"fmt"
	"strconv"
)

// Bundle body framing. Each part is a CRLF-delimited header section
// followed by the part body.
const (
	headerMethod        = "X-OC-Method: "
	headerPath          = "X-OC-Path: "
	headerContentLength = "Content-Length: "
	crlf                = "\r\n"
	headerSectionEnd    = "\r\n\r\n"
)

// BundlePart is one embedded PUT inside a bundle request. Content is the
// first byte of the part body; the rest of the body is assumed to repeat
// it.
type BundlePart struct {
	Path    string
	Size    int64
	Content byte
}

// ParseBundle decodes a bundle body into its parts, in order. The body
// is test-authored and trusted: any malformed framing panics.
func ParseBundle(body []byte) []BundlePart {
	var parts []BundlePart
	rest := body
	for {
		start := bytes.Index(rest, []byte(headerMethod))
		if start < 0 {
			break
		}
		rest = rest[start:]
		sectEnd := bytes.Index(rest, []byte(headerSectionEnd))
		if sectEnd < 0 {
			panic("proto: bundle part without header terminator")
		}
		section := rest[:sectEnd]

		method := headerValue(section, headerMethod)
		if method != string(Put) {
			panic(fmt.Sprintf("proto: bundle part method %q, only PUT is supported", method))
		}
		path := headerValue(section, headerPath)
		if len(path) > 0 && path[0] == '/' {
			path = path[1:]
		}
		size, err := strconv.ParseInt(headerValue(section, headerContentLength), 10, 64)
		if err != nil {
			panic("proto: bundle part with bad Content-Length: " + err.Error())
		}

		partBody := rest[sectEnd+len(headerSectionEnd):]
		content := DefaultBundleContent
		if size > 0 {
			if len(partBody) == 0 {
				panic("proto: bundle part body missing")
			}
			content = partBody[0]
		}
		parts = append(parts, BundlePart{Path: path, Size: size, Content: content})

		if size > int64(len(partBody)) {
			panic("proto: bundle part body shorter than Content-Length")
		}
		rest = partBody[size:]
	}
	return parts
}

// DefaultBundleContent stands in for the body of a zero-length part.
const DefaultBundleContent = byte('W')

func headerValue(section []byte, name string) string {
	i := bytes.Index(section, []byte(name))
	if i < 0 {
		panic("proto: bundle part missing header " + name)
	}
	v := section[i+len(name):]
	if j := bytes.Index(v, []byte(crlf)); j >= 0 {
		v = v[:j]
	}
	return string(v)
}

// BundleBuilder assembles a bundle request body for test drivers.
type BundleBuilder struct {
	buf bytes.Buffer
}

// AddPut appends one PUT part carrying the given body.
func (b *BundleBuilder) AddPut(path string, body []byte) {
	fmt.Fprintf(&b.buf, "%s%s%s", headerMethod, Put, crlf)
	fmt.Fprintf(&b.buf, "%s/%s%s", headerPath, path, crlf)
	fmt.Fprintf(&b.buf, "%s%d%s", headerContentLength, len(body), crlf)
	b.buf.WriteString(crlf)
	b.buf.Write(body)
	b.buf.WriteString(crlf)
}

// Bytes returns the assembled bundle body.
func (b *BundleBuilder) Bytes() []byte {
	return b.buf.Bytes()
}
