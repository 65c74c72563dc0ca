package simulator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/davsim/davsim/internal/events"
	"github.com/davsim/davsim/internal/metrics"
	"github.com/davsim/davsim/pkg/proto"
)

// must is the precondition check for handlers. A failing condition means
// a broken test fixture, not something the client under test should ever
// see, so it is fatal rather than a protocol error.
func must(cond bool, format string, args ...any) {
	if !cond {
		panic("simulator: " + fmt.Sprintf(format, args...))
	}
}

func (s *Server) handlePropfind(req proto.Request) proto.Response {
	node := s.tree.Resolve(req.Path)
	must(node != nil, "PROPFIND on missing path %q", req.Path)

	body, err := proto.ListingDocument(node)
	must(err == nil, "PROPFIND render: %v", err)

	res := proto.NewResponse(207)
	res.Header["Content-Type"] = "application/xml; charset=utf-8"
	res.Body = body
	return res
}

func (s *Server) handleGet(req proto.Request) proto.Response {
	node := s.tree.Resolve(req.Path)
	must(node != nil, "GET on missing path %q", req.Path)
	must(!node.IsDir, "GET on directory %q", req.Path)

	res := proto.NewResponse(200)
	res.Header["ETag"] = node.Etag
	res.Header["OC-ETag"] = node.Etag
	res.Header["OC-FileId"] = node.FileID
	res.Body = bytes.Repeat([]byte{node.ContentChar}, int(node.Size))
	return res
}

func (s *Server) handlePut(req proto.Request) proto.Response {
	must(len(req.Body) > 0, "PUT with empty body on %q", req.Path)

	node := s.tree.Resolve(req.Path)
	eventType := events.EventModify
	if node != nil {
		must(!node.IsDir, "PUT on directory %q", req.Path)
		// The upload is assumed to repeat its first byte.
		node.Size = int64(len(req.Body))
		node.ContentChar = req.Body[0]
		node = s.tree.Touch(req.Path)
	} else {
		var err error
		node, err = s.tree.Create(req.Path, int64(len(req.Body)), req.Body[0])
		must(err == nil, "PUT create %q: %v", req.Path, err)
		eventType = events.EventCreate
	}
	s.events.Publish(events.Event{Type: eventType, Path: req.Path, Size: node.Size})

	res := proto.NewResponse(200)
	res.Header["ETag"] = node.Etag
	res.Header["OC-ETag"] = node.Etag
	// The server accepts the client-sent modification time as-is.
	res.Header["X-OC-MTime"] = "accepted"
	return res
}

func (s *Server) handleMkcol(req proto.Request) proto.Response {
	node, err := s.tree.CreateDir(req.Path)
	must(err == nil, "MKCOL %q: %v", req.Path, err)
	s.events.Publish(events.Event{Type: events.EventMkdir, Path: req.Path})

	res := proto.NewResponse(201)
	res.Header["OC-FileId"] = node.FileID
	return res
}

func (s *Server) handleDelete(req proto.Request) proto.Response {
	err := s.tree.Remove(req.Path)
	must(err == nil, "DELETE %q: %v", req.Path, err)
	s.events.Publish(events.Event{Type: events.EventDelete, Path: req.Path})

	return proto.NewResponse(204)
}

func (s *Server) handleMove(req proto.Request) proto.Response {
	must(strings.HasPrefix(req.Destination, proto.RootPath),
		"MOVE destination %q outside namespace %q", req.Destination, proto.RootPath)
	dest := strings.TrimPrefix(req.Destination, proto.RootPath)

	err := s.tree.Rename(req.Path, dest)
	must(err == nil, "MOVE %q -> %q: %v", req.Path, dest, err)
	s.events.Publish(events.Event{Type: events.EventMove, Path: dest})

	return proto.NewResponse(201)
}

func (s *Server) handleBundle(req proto.Request) proto.Response {
	if req.Username == s.errorUser {
		body, err := proto.ForbiddenDocument()
		must(err == nil, "bundle forbidden render: %v", err)
		res := proto.NewResponse(403)
		res.Header["Content-Type"] = "application/xml; charset=utf-8"
		res.Body = body
		return res
	}

	parts := proto.ParseBundle(req.Body)
	entries := make([]proto.BundleEntry, 0, len(parts))
	for _, part := range parts {
		node := s.tree.Resolve(part.Path)
		eventType := events.EventModify
		if node != nil {
			must(!node.IsDir, "bundle PUT on directory %q", part.Path)
			node.Size = part.Size
			node.ContentChar = part.Content
			node = s.tree.Touch(part.Path)
		} else {
			var err error
			node, err = s.tree.Create(part.Path, part.Size, part.Content)
			must(err == nil, "bundle PUT create %q: %v", part.Path, err)
			eventType = events.EventCreate
		}
		s.events.Publish(events.Event{Type: eventType, Path: part.Path, Size: node.Size})

		entry := proto.BundleEntry{
			Path:   node.Path(),
			Etag:   node.Etag,
			FileID: node.FileID,
			Err:    proto.ClassifyBundlePath(part.Path),
		}
		status := 200
		if entry.Err != nil {
			status = entry.Err.Code
		}
		metrics.RecordBundlePart(strconv.Itoa(status))
		entries = append(entries, entry)
	}

	body, err := proto.BundleDocument(req.Username, entries)
	must(err == nil, "bundle render: %v", err)
	res := proto.NewResponse(207)
	res.Header["Content-Type"] = "application/xml; charset=utf-8"
	res.Body = body
	return res
}
