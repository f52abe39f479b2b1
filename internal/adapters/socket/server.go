package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/drew/refmap/internal/ports"
)

// AppQueries gives the server handlers access to app state. The app owns
// the index, the store, and the corpus walk; the server owns nothing but
// the listener. Implementations must be safe for concurrent use.
type AppQueries interface {
	// Search runs a ranked query against the current index.
	Search(term string, limit int, includeUsed bool) ([]ports.RankedMatch, error)

	// AutoMatch pairs each reference with its best available path.
	AutoMatch(refs []ports.Reference) (ports.AutoMatchResult, error)

	// Paths lists indexed paths, filtered by case-insensitive substring.
	Paths(filter string, includeUsed bool) ([]string, error)

	// IndexSize reports the current index dimensions.
	IndexSize() (paths, tokens int)

	// Reindex rebuilds the index from a fresh corpus walk.
	Reindex() (ReindexResult, error)

	// Stats summarizes index and store state. Uptime is filled in by
	// the server.
	Stats() (StatsResult, error)
}

// Server is the daemon that listens on a Unix socket and serves requests.
type Server struct {
	app      AppQueries
	listener net.Listener
	sockPath string
	started  time.Time

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by the given app.
func NewServer(app AppQueries, sockPath string) *Server {
	return &Server{
		app:        app,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first; if the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	// Handle stale socket
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		// Stale socket, remove it
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the socket file.
// Idempotent, safe to call multiple times (e.g. after remote shutdown + signal).
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB max message

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodSearch:
		return s.handleSearch(req)
	case MethodAutoMatch:
		return s.handleAutoMatch(req)
	case MethodPaths:
		return s.handlePaths(req)
	case MethodReindex:
		return s.handleReindex(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodStats:
		return s.handleStats(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleSearch(req Request) Response {
	// Re-marshal params to decode into SearchParams
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: "invalid search params"}
	}
	var params SearchParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid search params"}
	}

	start := time.Now()
	matches, err := s.app.Search(params.Term, params.Limit, params.IncludeUsed)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}

	return Response{
		ID: req.ID,
		Result: SearchResult{
			Matches: matches,
			Count:   len(matches),
			Elapsed: time.Since(start).String(),
		},
	}
}

func (s *Server) handleAutoMatch(req Request) Response {
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: "invalid automatch params"}
	}
	var params AutoMatchParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid automatch params"}
	}

	start := time.Now()
	result, err := s.app.AutoMatch(params.References)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}

	return Response{
		ID: req.ID,
		Result: AutoMatchResult{
			Suggestions: result.Suggestions,
			High:        result.High,
			Medium:      result.Medium,
			Low:         result.Low,
			Elapsed:     time.Since(start).String(),
		},
	}
}

func (s *Server) handlePaths(req Request) Response {
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: "invalid paths params"}
	}
	var params PathsParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid paths params"}
	}

	paths, err := s.app.Paths(params.Filter, params.IncludeUsed)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}

	return Response{
		ID: req.ID,
		Result: PathsResult{
			Paths: paths,
			Count: len(paths),
		},
	}
}

func (s *Server) handleReindex(req Request) Response {
	result, err := s.app.Reindex()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleHealth(req Request) Response {
	pathCount, tokenCount := s.app.IndexSize()

	return Response{
		ID: req.ID,
		Result: HealthResult{
			Status:     "ok",
			PathCount:  pathCount,
			TokenCount: tokenCount,
			Uptime:     time.Since(s.started).Round(time.Second).String(),
		},
	}
}

func (s *Server) handleStats(req Request) Response {
	stats, err := s.app.Stats()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	stats.Uptime = time.Since(s.started).Round(time.Second).String()

	return Response{ID: req.ID, Result: stats}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
