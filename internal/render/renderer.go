// Package render owns the transcript surface: the ordered, append-only log
// of exchanged messages plus the transient typing indicator and suggestion
// chips. How entries are drawn is cosmetic; the ordering contract is not.
package render

import "github.com/shoplite/chatwidget/internal/model/chat"

// Renderer receives conversation output. Appends must preserve call order as
// transcript order; the controller serializes calls. ClearTyping is
// idempotent and safe when no indicator exists.
type Renderer interface {
	AppendMessage(sender chat.Sender, text string)
	// AppendProductList renders one card per product. addToCart is bound at
	// render time with whatever session context the caller captured.
	AppendProductList(products []chat.Product, addToCart func(chat.Product))
	// AppendSuggestionChips renders up to 6 chips; selecting one must follow
	// the same path as a manual submission, exactly once per selection.
	AppendSuggestionChips(queries []string, onSelect func(string))
	ShowTyping()
	ClearTyping()
	// Clear empties the whole surface. Only a full-session reset calls this;
	// individual entries are never deleted.
	Clear()
}
