// Package proto defines the simulated WebDAV wire surface: verbs,
// request/response values, the multistatus documents produced for
// listings and bundles, and the bundle body codec.
package proto

// Verb identifies a protocol operation.
type Verb string

const (
	Propfind Verb = "PROPFIND"
	Get      Verb = "GET"
	Put      Verb = "PUT"
	Mkcol    Verb = "MKCOL"
	Delete   Verb = "DELETE"
	Move     Verb = "MOVE"
	// BundlePost carries multiple embedded PUT parts in one request.
	BundlePost Verb = "POST"
)

// Namespace roots mirrored into listing hrefs.
const (
	RootPath       = "/owncloud/remote.php/webdav/"
	BundleRootPath = "/remote.php/dav/files/"
)

// Permission strings surfaced in listings.
const (
	PermsShared  = "SRDNVCKW"
	PermsDefault = "RDNVCKW"
)

// Reserved path suffixes turning a bundle part into a synthetic error.
const (
	SuffixBadRequest  = "normalerrorfile" // 400, update not supported
	SuffixUnavailable = "fatalerrorfile"  // 503, transient
	SuffixLocked      = "softerrorfile"   // 423, lock conflict
)

// DefaultErrorUser is the reserved identity whose bundles are rejected
// wholesale with a single 403 document.
const DefaultErrorUser = "erroruser"

// Request is one protocol request issued to the simulator. Path and
// Destination are relative to the dav root.
type Request struct {
	Verb        Verb
	Path        string
	Body        []byte
	Destination string // MOVE only: absolute destination href
	Username    string // bundle only: identity issuing the transaction
}

// Response is the protocol result computed by a verb handler.
type Response struct {
	StatusCode int
	Header     map[string]string
	Body       []byte
}

// NewResponse creates a response with an empty header map.
func NewResponse(status int) Response {
	return Response{StatusCode: status, Header: make(map[string]string)}
}
