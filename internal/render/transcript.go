package render

import (
	"sync"

	"github.com/shoplite/chatwidget/internal/model/chat"
)

// maxChips caps how many suggested queries are surfaced.
const maxChips = 6

// Entry is one transcript item.
type Entry struct {
	Sender   chat.Sender
	Kind     chat.Kind
	Text     string
	Products []chat.Product
}

// ProductCard pairs a rendered product with its add-to-cart action, bound at
// render time.
type ProductCard struct {
	Product   chat.Product
	AddToCart func()
}

// Chip is a clickable suggested query.
type Chip struct {
	Query  string
	Select func()
}

// Transcript implements Renderer over an in-memory surface. A mutex guards
// the slices so a late network completion can still append safely after the
// panel was closed or reset.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	cards   []ProductCard
	chips   []Chip
	typing  bool
}

// NewTranscript returns an empty surface.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// AppendMessage adds a text bubble.
func (t *Transcript) AppendMessage(sender chat.Sender, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Sender: sender, Kind: chat.KindText, Text: text})
}

// AppendProductList adds one product-list entry and a card per product.
func (t *Transcript) AppendProductList(products []chat.Product, addToCart func(chat.Product)) {
	if len(products) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{
		Sender:   chat.SenderAssistant,
		Kind:     chat.KindProductList,
		Products: append([]chat.Product(nil), products...),
	})
	for _, p := range products {
		card := ProductCard{Product: p}
		if addToCart != nil {
			card.AddToCart = func() { addToCart(p) }
		}
		t.cards = append(t.cards, card)
	}
}

// AppendSuggestionChips replaces the chip bar with up to maxChips entries.
func (t *Transcript) AppendSuggestionChips(queries []string, onSelect func(string)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.chips = nil
	for _, q := range queries {
		if len(t.chips) == maxChips {
			break
		}
		chip := Chip{Query: q}
		if onSelect != nil {
			chip.Select = func() { onSelect(q) }
		}
		t.chips = append(t.chips, chip)
	}
}

// ShowTyping marks the single transient placeholder visible.
func (t *Transcript) ShowTyping() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typing = true
}

// ClearTyping removes the placeholder. Safe to call when none exists.
func (t *Transcript) ClearTyping() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typing = false
}

// Clear empties the surface, including cards and chips.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	t.cards = nil
	t.chips = nil
	t.typing = false
}

// Entries returns a copy of the ordered log.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Cards returns the product cards rendered so far, in order.
func (t *Transcript) Cards() []ProductCard {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ProductCard(nil), t.cards...)
}

// Chips returns the current suggestion chips.
func (t *Transcript) Chips() []Chip {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Chip(nil), t.chips...)
}

// TypingVisible reports whether the placeholder is showing.
func (t *Transcript) TypingVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.typing
}
