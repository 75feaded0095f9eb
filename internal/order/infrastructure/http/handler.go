package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/trendkart/order-service/internal/auth"
	invdomain "github.com/trendkart/order-service/internal/inventory/domain"
	"github.com/trendkart/order-service/internal/order/application"
	"github.com/trendkart/order-service/internal/order/domain"
	"github.com/trendkart/order-service/pkg/idempotency"
)

type Handler struct {
	log    *slog.Logger
	svc    *application.Service
	gate   *auth.Gate
	idem   *idempotency.Store // nil disables idempotency keys
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Service, gate *auth.Gate, idem *idempotency.Store) *Handler {
	return &Handler{
		log:    log,
		svc:    svc,
		gate:   gate,
		idem:   idem,
		tracer: otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)
		r.Get("/", h.listOwnOrders)
		r.Get("/{id}", h.getOrder)
	})
	r.Route("/admin/orders", func(r chi.Router) {
		r.Get("/", h.listAllOrders)
		r.Post("/{id}/status", h.updateStatus)
	})
	return r
}

type lineDTO struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type addressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type placeOrderReq struct {
	Lines         []lineDTO  `json:"lines"`
	Address       addressDTO `json:"address"`
	PaymentMethod string     `json:"paymentMethod"`
}

type orderDTO struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customerId"`
	Lines         []lineDTO  `json:"lines"`
	Address       addressDTO `json:"address"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	caller, err := h.identity(r)
	if err != nil || caller.CustomerID == "" {
		h.writeError(w, auth.ErrUnauthorized)
		return
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" && h.idem != nil {
		seen, err := h.idem.Seen(ctx, h.idem.Key(caller.CustomerID, key))
		if err != nil {
			h.writeError(w, err)
			return
		}
		if seen {
			h.writeJSON(w, http.StatusConflict, map[string]any{
				"success": false,
				"message": "duplicate request: idempotency key already used",
			})
			return
		}
	}

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid body"})
		return
	}

	lines := make([]domain.Line, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.Line{ProductID: l.ProductID, Size: l.Size, Quantity: l.Quantity}
	}
	address := domain.Address{
		Street: req.Address.Street, City: req.Address.City, State: req.Address.State,
		Zip: req.Address.Zip, Country: req.Address.Country,
	}

	o, err := h.svc.PlaceOrder(ctx, caller.CustomerID, lines, address, req.PaymentMethod)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "order": toDTO(o)})
}

func (h *Handler) listOwnOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOwnOrders")
	defer span.End()

	caller, err := h.identity(r)
	if err != nil || caller.CustomerID == "" {
		h.writeError(w, auth.ErrUnauthorized)
		return
	}
	orders, err := h.svc.OrdersForCustomer(ctx, caller.CustomerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": toDTOs(orders)})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	caller, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	o, err := h.svc.GetOrder(ctx, caller, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": toDTO(o)})
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListAllOrders")
	defer span.End()

	caller, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	orders, err := h.svc.AllOrders(ctx, caller)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": toDTOs(orders)})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	caller, err := h.identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid body"})
		return
	}

	o, err := h.svc.UpdateStatus(ctx, caller, chi.URLParam(r, "id"), domain.Status(req.Status))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": toDTO(o)})
}

// identity extracts and verifies the bearer credential. The gate accepts the
// token both as "Authorization: Bearer <t>" and bare in a "token" header,
// matching what the storefront sends.
func (h *Handler) identity(r *http.Request) (auth.Identity, error) {
	token := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	} else if header := r.Header.Get("token"); header != "" {
		token = header
	}
	return h.gate.Verify(token)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, invdomain.ErrInsufficientStock),
		errors.Is(err, invdomain.ErrUnknownProduct),
		errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	default:
		h.log.Error("request failed", "err", err)
	}
	h.writeJSON(w, status, map[string]any{"success": false, "message": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func toDTO(o domain.Order) orderDTO {
	lines := make([]lineDTO, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = lineDTO{ProductID: l.ProductID, Size: l.Size, Quantity: l.Quantity}
	}
	return orderDTO{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Lines:      lines,
		Address: addressDTO{
			Street: o.Address.Street, City: o.Address.City, State: o.Address.State,
			Zip: o.Address.Zip, Country: o.Address.Country,
		},
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toDTOs(orders []domain.Order) []orderDTO {
	out := make([]orderDTO, len(orders))
	for i, o := range orders {
		out[i] = toDTO(o)
	}
	return out
}
