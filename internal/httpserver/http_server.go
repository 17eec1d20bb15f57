package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"relDB/internal/engine"
	"relDB/internal/logger"
	"relDB/internal/utils"
)

var log = logger.NewLogger()

type HTTPServer struct {
	Echo *echo.Echo
	eng  *engine.DBEngine
}

type CustomValidator struct {
	validator *validator.Validate
}

// NewHTTPServer builds the echo instance and its routes over eng. Nothing
// is listening until Start is called.
func NewHTTPServer(eng *engine.DBEngine) *HTTPServer {
	s := &HTTPServer{
		Echo: echo.New(),
		eng:  eng,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.JSONSerializer = &utils.NoEscapeJSONSerializer{}

	s.Echo.Use(CreateReqContext)
	s.Echo.Use(LoggerMiddleware)
	s.Echo.Use(middleware.CORS())
	s.Echo.Validator = &CustomValidator{validator: validator.New()}

	// technical - no auth
	s.Echo.GET("/hc", s.HealthCheck)

	tables := s.Echo.Group("/tables")
	tables.GET("", ccHandler(s.ListTables))
	tables.POST("", ccHandler(s.CreateTable))
	tables.GET("/:name", ccHandler(s.GetTable))
	tables.DELETE("/:name", ccHandler(s.DropTable))
	tables.GET("/:name/render", ccHandler(s.RenderTable))
	tables.POST("/:name/rows", ccHandler(s.InsertRows))
	tables.GET("/:name/rows/:pos", ccHandler(s.GetRow))
	tables.POST("/:name/save", ccHandler(s.SaveTable))
	tables.POST("/:name/export", ccHandler(s.ExportTable))
	tables.POST("/:name/:op", ccHandler(s.RunOp))

	s.Echo.POST("/ops", ccHandler(s.Execute))
	s.Echo.GET("/saved", ccHandler(s.ListSaved))
	s.Echo.POST("/saved/:name/load", ccHandler(s.LoadTable))

	return s
}

// Start listens on addr and serves h2c in the background.
func (s *HTTPServer) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error creating tcp listener: %w", err)
	}
	s.Echo.Listener = listener
	go func() {
		log.Info().Msg("starting h2c server on " + listener.Addr().String())
		err := s.Echo.StartH2CServer("", &http2.Server{})
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("h2c server stopped")
		}
	}()
	return nil
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func ValidateRequest(c echo.Context, s interface{}) error {
	if err := c.Bind(s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(s); err != nil {
		return err
	}
	return nil
}

func (*HTTPServer) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	return err
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			// default handler
			c.Error(err)
		}
		stop := time.Since(start)
		logger := zerolog.Ctx(c.Request().Context())
		req := c.Request()
		res := c.Response()

		p := req.URL.Path
		if p == "" {
			p = "/"
		}

		cl := req.Header.Get(echo.HeaderContentLength)
		if cl == "" {
			cl = "0"
		}
		logger.Debug().Str("method", req.Method).Str("remote_ip", c.RealIP()).Str("req_uri", req.RequestURI).Str("handler_path", c.Path()).Str("path", p).Int("status", res.Status).Int64("latency_ns", int64(stop)).Str("protocol", req.Proto).Str("bytes_in", cl).Int64("bytes_out", res.Size).Msg("req received")
		return nil
	}
}
