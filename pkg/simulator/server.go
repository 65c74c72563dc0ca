package simulator

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/davsim/davsim/internal/config"
	"github.com/davsim/davsim/internal/events"
	"github.com/davsim/davsim/internal/logging"
	"github.com/davsim/davsim/internal/metrics"
	"github.com/davsim/davsim/pkg/proto"
	"github.com/davsim/davsim/pkg/vfs"
)

// FaultAll is the fault-list marker that fails every path.
const FaultAll = "*"

// Config holds simulator settings. The zero value is usable: a fresh
// loop, the global logger and the standard error identity.
type Config struct {
	Loop      *Loop
	Logger    *zap.Logger
	Events    *events.Broadcaster
	ErrorUser string // bundle identity rejected wholesale
}

// Server simulates the remote store behind the protocol: it routes each
// request to a verb handler (or to the fault injector) and delivers the
// result through the shared loop.
type Server struct {
	tree      *vfs.Tree
	loop      *Loop
	log       *zap.Logger
	events    *events.Broadcaster
	errorUser string
	faults    map[string]struct{}
}

// New creates a simulator over the given tree.
func New(tree *vfs.Tree, cfg Config) *Server {
	if cfg.Loop == nil {
		cfg.Loop = NewLoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.L().Named("simulator")
	}
	if cfg.Events == nil {
		cfg.Events = events.NewBroadcaster()
	}
	if cfg.ErrorUser == "" {
		cfg.ErrorUser = proto.DefaultErrorUser
	}
	metrics.SetTreeNodes(tree.Count())
	return &Server{
		tree:      tree,
		loop:      cfg.Loop,
		log:       cfg.Logger,
		events:    cfg.Events,
		errorUser: cfg.ErrorUser,
		faults:    make(map[string]struct{}),
	}
}

// NewFromEnv seeds a simulator from a layout with env-driven defaults.
func NewFromEnv(layout vfs.Layout) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return nil, err
	}
	tree := vfs.NewTree(layout)
	tree.DefaultSize = cfg.DefaultFileSize
	tree.DefaultContent = cfg.DefaultContentChar
	return New(tree, Config{ErrorUser: cfg.ErrorUser}), nil
}

// Tree returns the simulated remote tree. Mutating it directly models
// out-of-band server-side changes.
func (s *Server) Tree() *vfs.Tree { return s.tree }

// Loop returns the shared event loop.
func (s *Server) Loop() *Loop { return s.loop }

// Events returns the mutation broadcaster.
func (s *Server) Events() *events.Broadcaster { return s.events }

// InjectFault makes every request for path answer with a server error,
// regardless of verb. Use FaultAll to fail all paths.
func (s *Server) InjectFault(path string) {
	s.faults[path] = struct{}{}
	s.log.Info("fault injected", zap.String("path", path))
}

// ClearFault removes a path from the fault list.
func (s *Server) ClearFault(path string) {
	delete(s.faults, path)
}

// FaultPaths returns the current fault list in sorted order.
func (s *Server) FaultPaths() []string {
	paths := make([]string, 0, len(s.faults))
	for p := range s.faults {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// HasFault reports whether path is currently denylisted.
func (s *Server) HasFault(path string) bool {
	if _, ok := s.faults[FaultAll]; ok {
		return true
	}
	_, ok := s.faults[path]
	return ok
}

// Do routes a request and returns its not-yet-complete response. The
// tree is read or mutated synchronously; the response itself becomes
// observable only after the loop delivers it. An unrecognized verb is a
// contract violation and panics: the simulator is a closed double.
func (s *Server) Do(req proto.Request) *PendingResponse {
	var res proto.Response
	if s.HasFault(req.Path) {
		metrics.RecordInjectedFault()
		s.log.Info("answering injected fault",
			zap.String("verb", string(req.Verb)), zap.String("path", req.Path))
		res = proto.NewResponse(500)
	} else {
		switch req.Verb {
		case proto.Propfind:
			res = s.handlePropfind(req)
		case proto.Get:
			res = s.handleGet(req)
		case proto.Put:
			res = s.handlePut(req)
		case proto.Mkcol:
			res = s.handleMkcol(req)
		case proto.Delete:
			res = s.handleDelete(req)
		case proto.Move:
			res = s.handleMove(req)
		case proto.BundlePost:
			res = s.handleBundle(req)
		default:
			panic(fmt.Sprintf("simulator: unhandled verb %q", req.Verb))
		}
	}

	metrics.RecordRequest(string(req.Verb), res.StatusCode)
	metrics.SetTreeNodes(s.tree.Count())
	s.log.Debug("request dispatched",
		zap.String("verb", string(req.Verb)),
		zap.String("path", req.Path),
		zap.Int("status", res.StatusCode))

	p := &PendingResponse{req: req, res: res, state: StateCreated}
	s.loop.Post(p.deliver)
	p.state = StateDeferred
	return p
}
