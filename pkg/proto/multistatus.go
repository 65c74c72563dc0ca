package proto

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/davsim/davsim/pkg/vfs"
)

// XML namespaces used by the status documents.
const (
	nsDAV      = "DAV:"
	nsOwncloud = "http://owncloud.org/ns"
	nsSabre    = "http://sabredav.org/ns"
)

const statusOK = "HTTP/1.1 200 OK"

type multistatus struct {
	XMLName   xml.Name      `xml:"d:multistatus"`
	XmlnsD    string        `xml:"xmlns:d,attr"`
	XmlnsOC   string        `xml:"xmlns:oc,attr"`
	XmlnsS    string        `xml:"xmlns:s,attr,omitempty"`
	Responses []davResponse `xml:"d:response"`
}

type davResponse struct {
	Href     string   `xml:"d:href"`
	Propstat propstat `xml:"d:propstat"`
}

type propstat struct {
	Prop   prop   `xml:"d:prop"`
	Status string `xml:"d:status"`
}

type prop struct {
	// Listing entries.
	ResourceType  *resourceType `xml:"d:resourcetype,omitempty"`
	LastModified  string        `xml:"d:getlastmodified,omitempty"`
	ContentLength *int64        `xml:"d:getcontentlength,omitempty"`
	Etag          string        `xml:"d:getetag,omitempty"`
	Permissions   string        `xml:"oc:permissions,omitempty"`
	ID            string        `xml:"oc:id,omitempty"`

	// Bundle entries.
	OCEtag      string    `xml:"d:oc-etag,omitempty"`
	BundleEtag  string    `xml:"d:etag,omitempty"`
	OCFileID    string    `xml:"d:oc-fileid,omitempty"`
	XOCMtime    string    `xml:"d:x-oc-mtime,omitempty"`
	OCPath      string    `xml:"d:oc-path,omitempty"`
	BundleError *xmlError `xml:"d:error,omitempty"`
}

type resourceType struct {
	Collection *struct{} `xml:"d:collection,omitempty"`
}

type xmlError struct {
	Exception string `xml:"s:exception"`
	Message   string `xml:"s:message"`
}

func marshalDocument(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("render status document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func listingEntry(node *vfs.Node) davResponse {
	rt := &resourceType{}
	if node.IsDir {
		rt.Collection = &struct{}{}
	}
	perms := PermsDefault
	if node.IsShared {
		perms = PermsShared
	}
	size := node.Size
	return davResponse{
		Href: RootPath + node.Path(),
		Propstat: propstat{
			Prop: prop{
				ResourceType:  rt,
				LastModified:  node.LastModified.UTC().Format(http.TimeFormat),
				ContentLength: &size,
				Etag:          node.Etag,
				Permissions:   perms,
				ID:            node.FileID,
			},
			Status: statusOK,
		},
	}
}

// ListingDocument renders the PROPFIND multistatus body for a node: one
// entry for the node itself plus one per immediate child, in name order.
func ListingDocument(node *vfs.Node) ([]byte, error) {
	doc := multistatus{
		XmlnsD:    nsDAV,
		XmlnsOC:   nsOwncloud,
		Responses: []davResponse{listingEntry(node)},
	}
	for _, child := range node.Children() {
		doc.Responses = append(doc.Responses, listingEntry(child))
	}
	return marshalDocument(doc)
}

// BundleEntry is the per-part outcome appended to a bundle multistatus
// document. Err is nil for a successful part.
type BundleEntry struct {
	Path   string
	Etag   string
	FileID string
	Err    *BundleError
}

// BundleError is one of the synthetic per-part error classes.
type BundleError struct {
	Code      int
	Exception string
	Message   string
	Status    string
}

// ClassifyBundlePath maps a reserved path suffix to its synthetic error
// class, or nil for a normal part.
func ClassifyBundlePath(path string) *BundleError {
	switch {
	case strings.HasSuffix(path, SuffixBadRequest):
		return &BundleError{
			Code:      400,
			Exception: `Sabre\DAV\Exception\BadRequest`,
			Message:   "Method not allowed - file exists - update of the file is not supported!",
			Status:    "HTTP/1.1 400 Bad Request",
		}
	case strings.HasSuffix(path, SuffixUnavailable):
		return &BundleError{
			Code:      503,
			Exception: `Sabre\DAV\Exception\ServiceUnavailable`,
			Message:   "Failed to check file size",
			Status:    "HTTP/1.1 503 Service Unavailable",
		}
	case strings.HasSuffix(path, SuffixLocked):
		return &BundleError{
			Code:      423,
			Exception: `OCA\DAV\Connector\Sabre\Exception\FileLocked`,
			Message:   "Target file is locked by another process.",
			Status:    "HTTP/1.1 423 Locked (WebDAV; RFC 4918)",
		}
	}
	return nil
}

// BundleDocument renders the combined multistatus body answering a
// bundle, one entry per part in part order.
func BundleDocument(username string, entries []BundleEntry) ([]byte, error) {
	href := BundleRootPath + username
	doc := multistatus{
		XmlnsD:  nsDAV,
		XmlnsOC: nsOwncloud,
		XmlnsS:  nsSabre,
	}
	for _, e := range entries {
		p := prop{OCPath: "/" + e.Path}
		status := statusOK
		if e.Err != nil {
			p.BundleError = &xmlError{Exception: e.Err.Exception, Message: e.Err.Message}
			status = e.Err.Status
		} else {
			p.OCEtag = e.Etag
			p.BundleEtag = e.Etag
			p.OCFileID = e.FileID
			p.XOCMtime = "accepted"
		}
		doc.Responses = append(doc.Responses, davResponse{
			Href:     href,
			Propstat: propstat{Prop: p, Status: status},
		})
	}
	return marshalDocument(doc)
}

type topLevelError struct {
	XMLName   xml.Name `xml:"d:error"`
	XmlnsD    string   `xml:"xmlns:d,attr"`
	XmlnsOC   string   `xml:"xmlns:oc,attr"`
	XmlnsS    string   `xml:"xmlns:s,attr"`
	Exception string   `xml:"s:exception"`
	Message   string   `xml:"s:message"`
	Retry     string   `xml:"oc:retry"`
	Reason    string   `xml:"oc:reason"`
}

// ForbiddenDocument renders the single top-level error body used when a
// bundle is rejected wholesale for the reserved failing identity.
func ForbiddenDocument() ([]byte, error) {
	const reason = `URL endpoint has to be instance of \OCA\DAV\Files\FilesHome`
	return marshalDocument(topLevelError{
		XmlnsD:    nsDAV,
		XmlnsOC:   nsOwncloud,
		XmlnsS:    nsSabre,
		Exception: `OCA\DAV\Connector\Sabre\Exception\Forbidden`,
		Message:   reason,
		Retry:     "false",
		Reason:    reason,
	})
}
