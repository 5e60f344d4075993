package http

import (
	"context"
	"log/slog"
	"net/http"

	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

// Use case handlers as seen by the transport.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	OrderStatusChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
	}

	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}

	OrderGetter interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error)
	}

	OrderLister interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.PageResponse[queries.OrderResponse], error)
	}
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	CustomerID uuid.UUID      `json:"customerId"`
	ShopID     uuid.UUID      `json:"shopId"`
	Items      []NewOrderItem `json:"items"`
}

type NewOrderItem struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
}

// StatusUpdate is the body of PATCH /api/v1/orders/{orderId}/status.
type StatusUpdate struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Server maps HTTP requests onto the order use cases.
type Server struct {
	createOrder  OrderCreator
	changeStatus OrderStatusChanger
	cancelOrder  OrderCanceller
	getOrder     OrderGetter
	listOrders   OrderLister
	logger       *slog.Logger
}

func NewServer(
	createOrder OrderCreator,
	changeStatus OrderStatusChanger,
	cancelOrder OrderCanceller,
	getOrder OrderGetter,
	listOrders OrderLister,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrder:  createOrder,
		changeStatus: changeStatus,
		cancelOrder:  cancelOrder,
		getOrder:     getOrder,
		listOrders:   listOrders,
		logger:       logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := newCreateOrderCommand(body)
	if err != nil {
		return s.fail(c, err)
	}

	placed, err := s.createOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, queries.NewOrderResponse(placed))
}

func newCreateOrderCommand(body NewOrder) (commands.CreateOrderCommand, error) {
	customerID, err := kernel.UUIDFromGoogle(body.CustomerID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	shopID, err := kernel.UUIDFromGoogle(body.ShopID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	items := make([]commands.OrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		menuItemID, err := kernel.UUIDFromGoogle(item.MenuItemID)
		if err != nil {
			return commands.CreateOrderCommand{}, err
		}
		items = append(items, commands.OrderItem{MenuItemID: menuItemID, Quantity: item.Quantity})
	}

	return commands.NewCreateOrderCommand(kernel.NewUUID(), customerID, shopID, items)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	response, err := s.findOrder(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrderQRCode handles GET /api/v1/orders/{orderId}/qrcode. The PNG encodes the
// order id, which the shop scans at pickup.
func (s *Server) GetOrderQRCode(c echo.Context) error {
	response, err := s.findOrder(c)
	if err != nil {
		return s.fail(c, err)
	}

	png, err := qrcode.Encode(response.OrderID, qrcode.Medium, qrCodeSize)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (s *Server) findOrder(c echo.Context) (queries.OrderResponse, error) {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return queries.OrderResponse{}, err
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return queries.OrderResponse{}, err
	}
	return s.getOrder.Handle(c.Request().Context(), query)
}

// ChangeOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}

	var body StatusUpdate
	if err = c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewChangeOrderStatusCommand(orderID, status)
	if err != nil {
		return s.fail(c, err)
	}

	if body.Reason != "" {
		s.logger.InfoContext(c.Request().Context(), "Status change requested",
			"orderId", orderID.String(), "status", status.String(), "reason", body.Reason)
	}

	updated, err := s.changeStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, queries.NewOrderResponse(updated))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	cancelled, err := s.cancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, queries.NewOrderResponse(cancelled))
}

// ListOrders handles GET /api/v1/orders. customerId, shopId and status narrow the
// listing and may be combined.
func (s *Server) ListOrders(c echo.Context) error {
	filter, err := bindOrderFilter(c)
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, filter)
}

// ListCustomerOrders handles GET /api/v1/orders/customers/{customerId}.
func (s *Server) ListCustomerOrders(c echo.Context) error {
	customerID, err := pathUUID(c, "customerId")
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, ports.OrderFilter{CustomerID: &customerID})
}

// ListShopOrders handles GET /api/v1/orders/shops/{shopId}.
func (s *Server) ListShopOrders(c echo.Context) error {
	shopID, err := pathUUID(c, "shopId")
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, ports.OrderFilter{ShopID: &shopID})
}

// ListOrdersByStatus handles GET /api/v1/orders/status/{status}.
func (s *Server) ListOrdersByStatus(c echo.Context) error {
	status, err := order.ParseStatus(c.Param("status"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.list(c, ports.OrderFilter{Status: &status})
}

func (s *Server) list(c echo.Context, filter ports.OrderFilter) error {
	request, err := bindPageRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	page, err := s.listOrders.Handle(c.Request().Context(), queries.NewListOrdersQuery(filter, request))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
