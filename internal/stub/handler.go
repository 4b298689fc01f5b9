package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Settings 租户级的小部件文案配置
type Settings struct {
	WelcomeText      string
	SuggestedQueries []string
	DefaultReply     string
}

// 兜底回覆，與線上租戶的預設一致。
const fallbackDefaultReply = "暫時沒有找到相關商品，試試輸入：藍牙耳機、耳機、充電器。"

type conversation struct {
	ID       string
	Status   string
	Messages []storedMessage
}

type storedMessage struct {
	Role    string
	Content string
}

// Handler 桩后端的HTTP处理器
type Handler struct {
	apiKey   string
	catalog  *Catalog
	settings Settings

	mu            sync.Mutex
	conversations map[string]*conversation
	carts         map[string]map[string]int // conversation id -> product id -> qty
}

// New 创建桩后端处理器
func New(apiKey string, catalog *Catalog, settings Settings) *Handler {
	return &Handler{
		apiKey:        apiKey,
		catalog:       catalog,
		settings:      settings,
		conversations: make(map[string]*conversation),
		carts:         make(map[string]map[string]int),
	}
}

// NewRouter wires the stub endpoints under /v1 with the standard middleware
// stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(h.requireAPIKey)
		h.RegisterRoutes(v1)
	})

	return r
}

// RegisterRoutes 注册契约中的四个端点
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleSettings)
	r.Post("/chat/message", h.handleChatMessage)
	r.Post("/chat/reset", h.handleChatReset)
	r.Post("/cart/items", h.handleAddCartItem)
}

// requireAPIKey rejects requests whose X-API-Key does not match. An empty
// configured key disables the check for local use.
func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get("X-API-Key") != h.apiKey {
			respondError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleSettings 返回欢迎语与建议查询
func (h *Handler) handleSettings(w http.ResponseWriter, _ *http.Request) {
	suggested := h.settings.SuggestedQueries
	if suggested == nil {
		suggested = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"welcome_text":      h.settings.WelcomeText,
		"suggested_queries": suggested,
	})
}

// handleChatMessage 处理一次消息交换
func (h *Handler) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID *string `json:"conversation_id"`
		Message        string  `json:"message"`
		Locale         string  `json:"locale"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	h.mu.Lock()
	convo := h.lookupLocked(payload.ConversationID)
	if convo == nil {
		convo = &conversation{ID: uuid.NewString(), Status: "open"}
		h.conversations[convo.ID] = convo
	}
	convo.Messages = append(convo.Messages, storedMessage{Role: "user", Content: message})
	h.mu.Unlock()

	replyText, products := h.catalog.Recommend(message, 5)
	if replyText == "" {
		if len(products) > 0 {
			replyText = "为你找到以下商品："
		} else if h.settings.DefaultReply != "" {
			replyText = h.settings.DefaultReply
		} else {
			replyText = fallbackDefaultReply
		}
	}

	h.mu.Lock()
	convo.Messages = append(convo.Messages, storedMessage{Role: "assistant", Content: replyText})
	h.mu.Unlock()

	productCards := make([]map[string]any, 0, len(products))
	for _, p := range products {
		productCards = append(productCards, map[string]any{
			"id":        p.ID,
			"name":      p.Name,
			"image_url": p.ImageURL,
			"price":     map[string]any{"value": p.Price, "currency": p.Currency},
			"tags":      p.Tags,
			"add_to_cart": map[string]any{
				"product_id":  p.ID,
				"default_qty": 1,
			},
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": convo.ID,
		"messages": []map[string]any{
			{"role": "assistant", "type": "text", "content": replyText},
		},
		"products": productCards,
	})
}

// handleChatReset 关闭会话；未知的会话ID也返回成功
func (h *Handler) handleChatReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID *string `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	if convo := h.lookupLocked(payload.ConversationID); convo != nil {
		convo.Status = "closed"
	}
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleAddCartItem 将商品累加进会话购物车并返回快照
func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID *string `json:"conversation_id"`
		ProductID      string  `json:"product_id"`
		Quantity       int     `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantity := payload.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if payload.ProductID == "" || quantity < 0 {
		respondError(w, http.StatusBadRequest, "missing product_id or invalid quantity")
		return
	}

	product, ok := h.catalog.FindProduct(payload.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	cartKey := ""
	if payload.ConversationID != nil {
		cartKey = *payload.ConversationID
	}

	h.mu.Lock()
	cart := h.carts[cartKey]
	if cart == nil {
		cart = make(map[string]int)
		h.carts[cartKey] = cart
	}
	cart[product.ID] += quantity

	items := make([]map[string]any, 0, len(cart))
	total := 0.0
	for id, qty := range cart {
		p, _ := h.catalog.FindProduct(id)
		items = append(items, map[string]any{
			"product_id": id,
			"name":       p.Name,
			"quantity":   qty,
			"unit_price": p.Price,
			"currency":   p.Currency,
		})
		total += p.Price * float64(qty)
	}
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"cart_id": cartKey,
		"status":  "open",
		"items":   items,
		"total":   map[string]any{"value": total, "currency": product.Currency},
	})
}

// lookupLocked resolves an open conversation; closed or unknown ids miss.
func (h *Handler) lookupLocked(id *string) *conversation {
	if id == nil || *id == "" {
		return nil
	}
	convo, ok := h.conversations[*id]
	if !ok || convo.Status != "open" {
		return nil
	}
	return convo
}

// respondJSON 发送JSON响应
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError 发送错误响应
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
