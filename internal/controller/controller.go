// Package controller sequences the conversation: welcome display, message
// submission, typing-indicator lifecycle and response dispatch into the
// renderer. It is the only writer of session state.
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/shoplite/chatwidget/internal/api"
	"github.com/shoplite/chatwidget/internal/model/chat"
	"github.com/shoplite/chatwidget/internal/render"
	"github.com/shoplite/chatwidget/internal/session"
)

// DefaultWelcome is shown when the backend has no configured welcome text.
const DefaultWelcome = "嗨～我可以幫你快速找商品。試試輸入關鍵字：藍牙耳機、耳機、充電器…"

// ErrBusy rejects a send while a previous round-trip is still outstanding.
var ErrBusy = errors.New("message exchange already in flight")

// Controller drives one widget instance. All entry points may block on the
// network; the caller is expected to invoke them from a single interaction
// loop. Internal state is still mutex-guarded so a late completion cannot
// corrupt a surface that was reset meanwhile.
type Controller struct {
	store    session.Store
	client   *api.Client
	renderer render.Renderer
	locale   string

	mu       sync.Mutex
	open     bool
	awaiting bool
	epoch    int
	session  chat.ConversationSession
}

// New constructs a controller, restoring any persisted conversation id.
func New(store session.Store, client *api.Client, renderer render.Renderer, locale string) *Controller {
	c := &Controller{
		store:    store,
		client:   client,
		renderer: renderer,
		locale:   locale,
	}
	if id, err := store.Load(); err == nil {
		c.session.ID = id
	}
	return c
}

// Open shows the panel. Settings are re-fetched on every open so admin
// changes take effect; a welcome bubble is rendered at most once per process
// lifetime, and only for sessions with no prior conversation id.
func (c *Controller) Open(ctx context.Context) {
	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		return
	}
	c.open = true
	c.mu.Unlock()

	c.refreshAndWelcome(ctx)
}

// Close hides the panel. Session and transcript state stay in memory.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// Toggle flips panel visibility and reports whether it is now open.
func (c *Controller) Toggle(ctx context.Context) bool {
	if c.IsOpen() {
		c.Close()
		return false
	}
	c.Open(ctx)
	return true
}

// IsOpen reports panel visibility.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// ConversationID returns the current session correlator, "" when anonymous.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

func (c *Controller) refreshAndWelcome(ctx context.Context) {
	settings, err := c.client.FetchSettings(ctx)
	if err != nil {
		// Absent settings are not an error condition for the user.
		log.Printf("[widget] settings unavailable, using defaults: %v", err)
		settings = api.Settings{}
	}

	c.mu.Lock()
	c.session.WelcomeText = settings.WelcomeText
	c.session.SuggestedQueries = settings.SuggestedQueries
	showWelcome := !c.session.Welcomed && c.session.ID == ""
	c.session.Welcomed = true
	welcome := c.session.WelcomeText
	if welcome == "" {
		welcome = DefaultWelcome
	}
	queries := append([]string(nil), c.session.SuggestedQueries...)
	c.mu.Unlock()

	if showWelcome {
		c.renderer.AppendMessage(chat.SenderAssistant, welcome)
	}
	if len(queries) > 0 {
		c.renderer.AppendSuggestionChips(queries, func(q string) {
			if err := c.Send(ctx, q); err != nil && !errors.Is(err, ErrBusy) {
				log.Printf("[widget] suggested query failed: %v", err)
			}
		})
	}
}

// Send submits one user message. Empty input after trimming is rejected
// silently. While the round-trip is outstanding further sends return ErrBusy.
// The typing indicator is cleared on both success and failure, and the user's
// own bubble always stays visible.
func (c *Controller) Send(ctx context.Context, input string) error {
	message := strings.TrimSpace(input)
	if message == "" {
		return nil
	}

	c.mu.Lock()
	if c.awaiting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.awaiting = true
	epoch := c.epoch
	conversationID := c.session.ID
	c.mu.Unlock()

	c.renderer.AppendMessage(chat.SenderUser, message)
	c.renderer.ShowTyping()

	resp, err := c.client.SendMessage(ctx, conversationID, message, c.locale)

	c.mu.Lock()
	stale := epoch != c.epoch
	if !stale {
		c.awaiting = false
	}
	c.mu.Unlock()
	if stale {
		// A reset ran mid-flight; the surface this exchange belonged to is
		// gone. Drop the result.
		return nil
	}

	c.renderer.ClearTyping()
	if err != nil {
		return err
	}

	if resp.ConversationID != "" && resp.ConversationID != conversationID {
		c.adoptConversationID(resp.ConversationID)
		conversationID = resp.ConversationID
	}

	for _, text := range resp.Texts {
		c.renderer.AppendMessage(chat.SenderAssistant, text)
	}
	if len(resp.Products) > 0 {
		// Bind the conversation id now, not when the card is clicked.
		cartConversation := conversationID
		c.renderer.AppendProductList(resp.Products, func(p chat.Product) {
			item := chat.CartItem{ConversationID: cartConversation, ProductID: p.ID, Quantity: 1}
			if err := c.client.AddToCart(ctx, item); err != nil {
				log.Printf("[widget] add to cart failed (ignored): %v", err)
			}
		})
	}
	return nil
}

// Reset closes the conversation backend-side (best-effort), clears the
// persisted id and the transcript, and re-runs the welcome flow when the
// panel is open.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	id := c.session.ID
	c.mu.Unlock()

	if id != "" {
		if err := c.client.Reset(ctx, id); err != nil {
			log.Printf("[widget] backend reset failed (ignored): %v", err)
		}
	}
	if err := c.store.Clear(); err != nil {
		log.Printf("[widget] clearing persisted session failed: %v", err)
	}

	c.mu.Lock()
	c.epoch++
	c.awaiting = false
	c.session.Reset()
	reopen := c.open
	c.mu.Unlock()

	c.renderer.Clear()
	if reopen {
		c.refreshAndWelcome(ctx)
	}
}

func (c *Controller) adoptConversationID(id string) {
	c.mu.Lock()
	c.session.ID = id
	c.mu.Unlock()

	if err := c.store.Save(id); err != nil {
		log.Printf("[widget] persisting conversation id failed: %v", err)
	}
}
