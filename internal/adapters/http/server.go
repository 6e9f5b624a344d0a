package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/starport-go/internal/adapters/notify"
	"github.com/andrescamacho/starport-go/internal/application/common"
	deliveryQueries "github.com/andrescamacho/starport-go/internal/application/delivery/queries"
	ledgerQueries "github.com/andrescamacho/starport-go/internal/application/ledger/queries"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/application/production/commands"
	"github.com/andrescamacho/starport-go/internal/application/production/queries"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// StatusProvider exposes a consistent snapshot of the running session
type StatusProvider interface {
	Status() simulation.Status
}

// NotificationFeed lists the notifications recently shown to players
type NotificationFeed interface {
	Recent() []notify.Notification
}

// Error is the JSON error body
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderRequest is the body of POST /queues/:type/orders
type OrderRequest struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Queued   *bool  `json:"queued"`
}

// Server serves the session status, queue commands and Prometheus metrics over HTTP
type Server struct {
	echo     *echo.Echo
	mediator common.Mediator
	status   StatusProvider
	feed     NotificationFeed
	playerID int
}

// NewServer builds the routes. registry may be nil when metrics are disabled; feed may be nil.
func NewServer(
	mediator common.Mediator,
	status StatusProvider,
	feed NotificationFeed,
	playerID int,
	registry *prometheus.Registry,
	metricsPath string,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, mediator: mediator, status: status, feed: feed, playerID: playerID}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/status", s.GetStatus)
	e.GET("/queues/:type", s.GetQueue)
	e.POST("/queues/:type/orders", s.StartProduction)
	e.POST("/queues/:type/dispatch", s.StartDelivery)
	e.GET("/ledger/summary", s.GetLedgerSummary)
	e.GET("/deliveries", s.GetDeliveries)
	e.GET("/notifications", s.GetNotifications)

	if registry != nil {
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		e.GET(metricsPath, echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on address until Shutdown is called
func (s *Server) Start(address string) error {
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// GetStatus handles GET /status
func (s *Server) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.status.Status())
}

// GetQueue handles GET /queues/:type
func (s *Server) GetQueue(c echo.Context) error {
	resp, err := s.mediator.Send(c.Request().Context(), &queries.GetQueueStatusQuery{QueueType: c.Param("type")})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// StartProduction handles POST /queues/:type/orders
func (s *Server) StartProduction(c echo.Context) error {
	var body OrderRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}
	queued := true
	if body.Queued != nil {
		queued = *body.Queued
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	resp, err := s.mediator.Send(c.Request().Context(), &commands.StartProductionCommand{
		QueueType: c.Param("type"),
		Item:      body.Item,
		Quantity:  body.Quantity,
		Queued:    queued,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]int{"accepted": resp.(*commands.StartProductionResponse).Accepted})
}

// StartDelivery handles POST /queues/:type/dispatch
func (s *Server) StartDelivery(c echo.Context) error {
	resp, err := s.mediator.Send(c.Request().Context(), &commands.StartDeliveryCommand{QueueType: c.Param("type")})
	if err != nil {
		return writeError(c, err)
	}
	r := resp.(*commands.StartDeliveryResponse)
	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"snapshot_id": r.SnapshotID,
		"items":       r.Items,
		"total_cost":  r.TotalCost,
	})
}

// GetLedgerSummary handles GET /ledger/summary
func (s *Server) GetLedgerSummary(c echo.Context) error {
	resp, err := s.mediator.Send(c.Request().Context(), &ledgerQueries.GetLedgerSummaryQuery{PlayerID: s.playerID})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDeliveries handles GET /deliveries?limit=N
func (s *Server) GetDeliveries(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "limit must be a non-negative integer"})
		}
		limit = n
	}
	resp, err := s.mediator.Send(c.Request().Context(), &deliveryQueries.GetDeliveriesQuery{PlayerID: s.playerID, Limit: limit})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp.(*deliveryQueries.GetDeliveriesResponse).Deliveries)
}

// GetNotifications handles GET /notifications
func (s *Server) GetNotifications(c echo.Context) error {
	if s.feed == nil {
		return c.JSON(http.StatusOK, []notify.Notification{})
	}
	return c.JSON(http.StatusOK, s.feed.Recent())
}

func writeError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	var (
		notFound   *appProduction.ErrQueueNotFound
		funds      *shared.InsufficientFundsError
		validation *shared.ValidationError
		state      *shared.InvalidStateError
		site       *production.ErrSiteUnavailable
	)
	switch {
	case errors.As(err, &notFound):
		code = http.StatusNotFound
	case errors.As(err, &funds):
		code = http.StatusPaymentRequired
	case errors.As(err, &site):
		code = http.StatusConflict
	case errors.As(err, &validation):
		code = http.StatusBadRequest
	case errors.As(err, &state):
		code = http.StatusConflict
	}
	return c.JSON(code, Error{Code: code, Message: err.Error()})
}
