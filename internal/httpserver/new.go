package httpserver

import (
	"errors"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	tgDelivery "lacri-bot/internal/chat/delivery/telegram"
	"lacri-bot/internal/middleware"
	"lacri-bot/internal/test"
	"lacri-bot/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware
	ready       *atomic.Bool

	// Chat domain; nil in polling mode
	telegramHandler tgDelivery.Handler

	// Test domain; never mounted in production
	testHandler test.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	TelegramHandler tgDelivery.Handler
	TestHandler     test.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		mw:              middleware.New(logger),
		ready:           &atomic.Bool{},
		telegramHandler: cfg.TelegramHandler,
		testHandler:     cfg.TestHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

// SetReady flips the readiness probe.
func (srv HTTPServer) SetReady(ready bool) {
	srv.ready.Store(ready)
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
