package jslink

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/benitogf/coat"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/benitogf/jslink/db"
	"github.com/benitogf/jslink/wsbridge"
)

const deadlineMsg = "jslink: server deadline reached"

// Server is the main application struct for the workbench. It owns the
// HTTP router, the SQLite-backed persistence gateway, and the WebSocket
// bridge session table. Lifecycle (defaults/StartWithError/Start/Close/
// WaitClose) follows ooo.go's Server almost verbatim, generalized from a
// storage-watching pub/sub server to a stateless request dispatcher with
// no storage-change broadcast loop to manage.
type Server struct {
	wg        sync.WaitGroup
	listenWg  sync.WaitGroup
	handlerWg sync.WaitGroup
	server    *http.Server

	Router         *mux.Router
	Store          *db.DB
	DatabaseURL    string
	Address        string
	Name           string
	Silence        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	Deadline       time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	IdleTimeout    time.Duration
	OnClose        func()

	Console *coat.Console
	Signal  chan os.Signal

	bridges  *wsbridge.Manager
	closing  int64
	active   int64
	startErr chan error
}

// tcpKeepAliveListener wraps the listener handed to http.Server.Serve. It
// does not override Accept, so accepted connections keep the TCP keep-alive
// settings that net.Listen applies by default.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Active reports whether the server is serving and not mid-shutdown.
func (server *Server) Active() bool {
	return atomic.LoadInt64(&server.active) == 1 && atomic.LoadInt64(&server.closing) == 0
}

// defaultCORS mirrors ooo.go's defaultCORS, with a jslink-appropriate
// method list (requests never need DELETE-by-glob, PATCH is real here).
func (server *Server) defaultCORS() {
	if len(server.AllowedOrigins) == 0 {
		server.AllowedOrigins = []string{"*"}
	}
	if len(server.AllowedMethods) == 0 {
		server.AllowedMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete,
		}
	}
	if len(server.AllowedHeaders) == 0 {
		server.AllowedHeaders = []string{"Authorization", "Content-Type"}
	}
}

func (server *Server) defaultTimeouts() {
	if server.Deadline == 0 {
		server.Deadline = 30 * time.Second
	}
	if server.ReadTimeout == 0 {
		server.ReadTimeout = 1 * time.Minute
	}
	if server.WriteTimeout == 0 {
		server.WriteTimeout = 1 * time.Minute
	}
	if server.ReadHeaderTimeout == 0 {
		server.ReadHeaderTimeout = 10 * time.Second
	}
	if server.IdleTimeout == 0 {
		server.IdleTimeout = 10 * time.Second
	}
}

func (server *Server) defaultCallbacks() {
	if server.OnClose == nil {
		server.OnClose = func() {}
	}
}

// defaults populates zero-valued fields, mirroring ooo.go's defaults().
func (server *Server) defaults() {
	if server.Name == "" {
		server.Name = "jslink"
	}
	if server.Router == nil {
		server.Router = mux.NewRouter()
	}
	if server.Console == nil {
		server.Console = coat.NewConsole(server.Address, server.Silence)
	}
	if server.DatabaseURL == "" {
		server.DatabaseURL = "file:jslink.db"
	}
	if server.bridges == nil {
		server.bridges = wsbridge.NewManager()
	}
	server.defaultTimeouts()
	server.defaultCORS()
	server.defaultCallbacks()
}

func (server *Server) waitListen() {
	defer server.listenWg.Done()

	store, err := db.Open(server.DatabaseURL)
	if err != nil {
		server.startErr <- fmt.Errorf("jslink: database open failed: %w", err)
		server.wg.Done()
		return
	}
	server.Store = store

	server.setupRoutes()

	server.server = &http.Server{
		Addr:              server.Address,
		ReadTimeout:       server.ReadTimeout,
		WriteTimeout:      server.WriteTimeout,
		ReadHeaderTimeout: server.ReadHeaderTimeout,
		IdleTimeout:       server.IdleTimeout,
		Handler: cors.New(cors.Options{
			AllowedOrigins: server.AllowedOrigins,
			AllowedMethods: server.AllowedMethods,
			AllowedHeaders: server.AllowedHeaders,
			ExposedHeaders: server.ExposedHeaders,
		}).Handler(handlers.CompressHandler(server.Router)),
	}

	ln, err := net.Listen("tcp4", server.Address)
	if err != nil {
		server.startErr <- fmt.Errorf("jslink: failed to start tcp: %w", err)
		server.wg.Done()
		return
	}
	server.Address = ln.Addr().String()
	atomic.StoreInt64(&server.active, 1)
	server.wg.Done()

	err = server.server.Serve(tcpKeepAliveListener{ln.(*net.TCPListener)})
	if atomic.LoadInt64(&server.closing) != 1 && err != nil {
		server.Console.Err("server error", err)
	}
}

func (server *Server) waitStart() error {
	select {
	case err := <-server.startErr:
		return err
	default:
	}
	if atomic.LoadInt64(&server.active) == 0 {
		return ErrServerStartFailed
	}
	server.Console.Log("glad to serve[" + server.Address + "]")
	return nil
}

// StartWithError initializes and starts the HTTP server and database pool.
func (server *Server) StartWithError(address string) error {
	server.Address = address
	if atomic.LoadInt64(&server.active) == 1 {
		return ErrServerAlreadyActive
	}
	atomic.StoreInt64(&server.active, 0)
	atomic.StoreInt64(&server.closing, 0)
	server.startErr = make(chan error, 1)
	server.defaults()

	server.wg.Add(1)
	server.listenWg.Add(1)
	go server.waitListen()
	server.wg.Wait()

	if err := server.waitStart(); err != nil {
		return err
	}
	return nil
}

// Start is the convenience wrapper around StartWithError: any start error
// other than ErrServerAlreadyActive is passed to log.Fatal, which exits the
// process.
func (server *Server) Start(address string) {
	err := server.StartWithError(address)
	if err != nil && err != ErrServerAlreadyActive {
		log.Fatal(err)
	}
}

// Close shuts the HTTP server, the WebSocket bridge sessions, and the
// database pool down, then clears state so the Server can be restarted.
func (server *Server) Close(sig os.Signal) {
	if atomic.LoadInt64(&server.closing) != 1 {
		atomic.StoreInt64(&server.closing, 1)
		atomic.StoreInt64(&server.active, 0)

		server.bridges.CloseAll()

		if server.server != nil {
			server.server.Shutdown(context.Background())
		}
		server.handlerWg.Wait()
		server.listenWg.Wait()

		if server.Store != nil {
			server.Store.Close()
		}
		server.OnClose()
		if server.Console != nil {
			server.Console.Err("shutdown", sig)
		}

		server.server = nil
		server.Router = nil
		server.Store = nil
		server.Console = nil
		server.bridges = nil
		server.startErr = nil
	}
}

// WaitClose blocks until SIGINT, SIGTERM, or SIGHUP, then closes.
func (server *Server) WaitClose() {
	server.Signal = make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(server.Signal, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-server.Signal
		server.Close(sig)
		done <- true
	}()
	<-done
}
