// Package http exposes the order use cases over a JSON API built on echo.
//
// Requests under /api/v1/orders are checked against the embedded OpenAPI
// contract before they reach a handler. The contract itself is served at
// /openapi.yaml and rendered by Swagger UI at /swagger/.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter wires the server's handlers, the contract validator and the
// request middleware into an echo instance.
func NewRouter(ctx context.Context, s *Server, serviceName string, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := loadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(tracing(serviceName))
	e.Use(requestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", openAPISpec)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))

	orders := e.Group("/api/v1/orders", validate)
	orders.POST("", s.CreateOrder)
	orders.GET("", s.ListOrders)
	orders.GET("/customers/:customerId", s.ListCustomerOrders)
	orders.GET("/shops/:shopId", s.ListShopOrders)
	orders.GET("/status/:status", s.ListOrdersByStatus)
	orders.GET("/:orderId", s.GetOrder)
	orders.GET("/:orderId/qrcode", s.GetOrderQRCode)
	orders.PATCH("/:orderId/status", s.ChangeOrderStatus)
	orders.POST("/:orderId/cancel", s.CancelOrder)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "Request handled", attrs...)
			return nil
		},
	})
}
