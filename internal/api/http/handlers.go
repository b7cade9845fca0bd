package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"cardapio-virtual/internal/apierr"
	"cardapio-virtual/internal/domain"
	"cardapio-virtual/internal/service"
)

const (
	defaultPopularLimit = 5
	maxPopularLimit     = 50

	defaultMaxUploadBytes = 10 << 20
	maxOrderBodyBytes     = 1 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Handler struct {
	Menu           service.MenuServiceInterface
	Orders         service.OrderServiceInterface
	Popularity     service.PopularityServiceInterface
	MaxUploadBytes int64
}

func NewHandler(menuSvc service.MenuServiceInterface, orderSvc service.OrderServiceInterface, popularitySvc service.PopularityServiceInterface, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		Menu:           menuSvc,
		Orders:         orderSvc,
		Popularity:     popularitySvc,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	c := r.PathPrefix("/cardapio").Subrouter()
	c.HandleFunc("/obter_cardapio", h.getMenu).Methods("GET")
	c.HandleFunc("/obter_item/{id:[0-9]+}", h.getItem).Methods("GET")
	c.HandleFunc("/obter_pedidos", h.getOrders).Methods("GET")
	c.HandleFunc("/obter_detalhes_pedido/{id:[0-9]+}", h.getOrderDetail).Methods("GET")
	c.HandleFunc("/obter_categorias", h.getCategories).Methods("GET")
	c.HandleFunc("/obter_mais_pedidos", h.getMostOrdered).Methods("GET")
	c.HandleFunc("/obter_qrcode_pedido/{id:[0-9]+}", h.getOrderQRCode).Methods("GET")

	c.HandleFunc("/cadastrar_item", h.createItem).Methods("POST")
	c.HandleFunc("/fazer_pedido", h.placeOrder).Methods("POST")

	c.HandleFunc("/atualizar_item/{id:[0-9]+}", h.updateItem).Methods("PUT")
	c.HandleFunc("/atualizar_status_pedido/{id:[0-9]+}", h.updateOrderStatus).Methods("PUT")
	c.HandleFunc("/atualizar_pedido/{id:[0-9]+}", h.updateOrder).Methods("PUT")

	c.HandleFunc("/deletar_item/{id:[0-9]+}", h.deleteItem).Methods("DELETE")
	c.HandleFunc("/deletar_pedido/{id:[0-9]+}", h.deleteOrder).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "cardapio-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// pathID reads the {id} variable. The route pattern guarantees digits, so
// the only failure is overflow, which no stored row can match.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context(), r.URL.Query().Get("categoria"))
	if err != nil {
		writeError(w, r, err, "Nenhum item encontrado.", "Nenhum item encontrado.")
		return
	}
	if len(items) == 0 {
		apierr.Write(w, apierr.NotFound("Nenhum item encontrado."))
		return
	}
	writeSuccess(w, items, "Cardápio obtido com sucesso.")
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound("Item não encontrado."))
		return
	}
	item, err := h.Menu.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Item não encontrado.", "Item não encontrado.")
		return
	}
	writeSuccess(w, item, "Item obtido com sucesso.")
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		writeError(w, r, err, "Nenhum pedido encontrado.", "Nenhum pedido encontrado.")
		return
	}
	if len(orders) == 0 {
		apierr.Write(w, apierr.NotFound("Nenhum pedido encontrado."))
		return
	}
	writeSuccess(w, orders, "Pedidos obtidos com sucesso.")
}

func (h *Handler) getOrderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound("Pedido não encontrado."))
		return
	}
	detail, err := h.Orders.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Pedido não encontrado.", "Pedido não encontrado.")
		return
	}
	writeSuccess(w, detail, "Pedido obtido com sucesso.")
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, "Nenhuma categoria encontrada.", "Nenhuma categoria encontrada.")
		return
	}
	if len(categories) == 0 {
		apierr.Write(w, apierr.NotFound("Nenhuma categoria encontrada."))
		return
	}
	writeSuccess(w, categories, "Categorias obtidas com sucesso.")
}

func (h *Handler) getMostOrdered(w http.ResponseWriter, r *http.Request) {
	limit := defaultPopularLimit
	if raw := r.URL.Query().Get("limite"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierr.Write(w, apierr.BadRequest("O parâmetro limite deve ser um inteiro positivo."))
			return
		}
		limit = min(n, maxPopularLimit)
	}

	popular, err := h.Popularity.Top(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, "Nenhum item encontrado.", "Nenhum item encontrado.")
		return
	}
	if len(popular) == 0 {
		apierr.Write(w, apierr.NotFound("Nenhum item encontrado."))
		return
	}
	writeSuccess(w, popular, "Itens mais pedidos obtidos com sucesso.")
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound("Pedido não encontrado."))
		return
	}
	png, err := h.Orders.QRCode(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Pedido não encontrado.", "Pedido não encontrado.")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// parseItemForm parses a multipart body when there is one; plain query
// parameters are accepted as well.
func (h *Handler) parseItemForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	err := r.ParseMultipartForm(h.MaxUploadBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

func formField(r *http.Request, key string) (string, bool) {
	values, ok := r.Form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// imageUpload returns the "arquivo" file part, or nil when the request has
// none.
func imageUpload(r *http.Request) (*domain.ImageUpload, io.Closer, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile("arquivo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		file.Close()
		return nil, nil, domain.ErrInvalidItem
	}
	return &domain.ImageUpload{Filename: header.Filename, Content: file}, file, nil
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	const failed = "Erro ao cadastrar o item."

	if err := h.parseItemForm(w, r); err != nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.Form.Get("preco")))
	if err != nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}
	input := domain.NewItem{
		Name:        r.Form.Get("nome"),
		Description: r.Form.Get("descricao"),
		Price:       price,
		Category:    r.Form.Get("categoria"),
	}

	upload, closer, err := imageUpload(r)
	if err != nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	if _, err := h.Menu.Create(r.Context(), input, upload); err != nil {
		writeError(w, r, err, failed, failed)
		return
	}
	writeSuccess(w, nil, "Item cadastrado com sucesso.")
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	const failed = "Erro ao atualizar o item."

	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound("Item não encontrado."))
		return
	}
	if err := h.parseItemForm(w, r); err != nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}

	var patch domain.ItemPatch
	if v, ok := formField(r, "nome"); ok {
		patch.Name = &v
	}
	if v, ok := formField(r, "descricao"); ok {
		patch.Description = &v
	}
	if v, ok := formField(r, "categoria"); ok {
		patch.Category = &v
	}
	if v, ok := formField(r, "preco"); ok {
		price, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			apierr.Write(w, apierr.BadRequest(failed))
			return
		}
		patch.Price = &price
	}

	upload, closer, err := imageUpload(r)
	if err != nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	if _, err := h.Menu.Update(r.Context(), id, patch, upload); err != nil {
		writeError(w, r, err, "Item não encontrado.", failed)
		return
	}
	writeSuccess(w, nil, "Item atualizado com sucesso.")
}

type orderRequest struct {
	Items  *[]int `json:"itens"`
	Status string `json:"status"`
}

func decodeOrderRequest(w http.ResponseWriter, r *http.Request) (orderRequest, error) {
	var req orderRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBodyBytes)).Decode(&req)
	if errors.Is(err, io.EOF) {
		return req, nil
	}
	return req, err
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	const failed = "O pedido não pode ser realizado."

	req, err := decodeOrderRequest(w, r)
	if err != nil || req.Items == nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}

	rawStatus := r.URL.Query().Get("status")
	if rawStatus == "" {
		rawStatus = req.Status
	}
	status := domain.StatusPreOrder
	if rawStatus != "" {
		if status, err = domain.ParseOrderStatus(rawStatus); err != nil {
			writeError(w, r, err, failed, failed)
			return
		}
	}

	if _, err := h.Orders.Place(r.Context(), *req.Items, status); err != nil {
		writeError(w, r, err, failed, failed)
		return
	}
	writeSuccess(w, nil, "Pedido realizado com sucesso.")
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	const failed = "Status do pedido inválido."

	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound("Pedido não encontrado."))
		return
	}

	rawStatus := r.URL.Query().Get("status")
	if rawStatus == "" {
		req, err := decodeOrderRequest(w, r)
		if err != nil {
			apierr.Write(w, apierr.BadRequest(failed))
			return
		}
		rawStatus = req.Status
	}
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		writeError(w, r, err, "Pedido não encontrado.", failed)
		return
	}

	if _, err := h.Orders.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, r, err, "Pedido não encontrado.", failed)
		return
	}
	writeSuccess(w, nil, "Status do pedido atualizado com sucesso.")
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	const notFound = "O pedido não foi encontrado."
	const failed = "O pedido não pode ser atualizado."

	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound(notFound))
		return
	}
	req, err := decodeOrderRequest(w, r)
	if err != nil || req.Items == nil {
		apierr.Write(w, apierr.BadRequest(failed))
		return
	}

	outcome, err := h.Orders.Update(r.Context(), id, *req.Items)
	if err != nil {
		writeError(w, r, err, notFound, failed)
		return
	}
	if outcome == domain.OrderDeletedEmpty {
		writeSuccess(w, nil, "Pedido deletado com sucesso devido está vazio.")
		return
	}
	writeSuccess(w, nil, "Pedido atualizado com sucesso.")
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound("Item não encontrado."))
		return
	}
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Item não encontrado.", "Item não encontrado.")
		return
	}
	writeSuccess(w, nil, "Item deletado com sucesso.")
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	const notFound = "Pedido não encontrado ou não pode ser deletado."

	id, ok := pathID(r)
	if !ok {
		apierr.Write(w, apierr.NotFound(notFound))
		return
	}
	if err := h.Orders.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, notFound, notFound)
		return
	}
	writeSuccess(w, nil, "Pedido deletado com sucesso.")
}
