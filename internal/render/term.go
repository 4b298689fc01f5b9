package render

import (
	"fmt"
	"io"

	"github.com/shoplite/chatwidget/internal/model/chat"
)

const typingText = "正在為你查找…"

// TermRenderer draws the transcript onto a terminal writer as entries arrive.
// Newest content is always printed last, the terminal equivalent of
// scroll-to-bottom. It delegates state to an embedded Transcript so the shell
// can still address cards and chips by index.
type TermRenderer struct {
	*Transcript
	out io.Writer
}

// NewTermRenderer wraps a transcript with terminal output.
func NewTermRenderer(out io.Writer) *TermRenderer {
	return &TermRenderer{Transcript: NewTranscript(), out: out}
}

func (r *TermRenderer) AppendMessage(sender chat.Sender, text string) {
	r.Transcript.AppendMessage(sender, text)
	label := "助理"
	if sender == chat.SenderUser {
		label = "　你"
	}
	fmt.Fprintf(r.out, "%s ▏%s\n", label, text)
}

func (r *TermRenderer) AppendProductList(products []chat.Product, addToCart func(chat.Product)) {
	before := len(r.Transcript.Cards())
	r.Transcript.AppendProductList(products, addToCart)
	for i, p := range products {
		fmt.Fprintf(r.out, "　　 ┌ (%d) %s ￥%g　/add %d 加入購物車\n", before+i+1, p.Name, p.Price, before+i+1)
	}
}

func (r *TermRenderer) AppendSuggestionChips(queries []string, onSelect func(string)) {
	r.Transcript.AppendSuggestionChips(queries, onSelect)
	chips := r.Transcript.Chips()
	if len(chips) == 0 {
		return
	}
	fmt.Fprint(r.out, "建議：")
	for i, chip := range chips {
		fmt.Fprintf(r.out, "[%d] %s　", i+1, chip.Query)
	}
	fmt.Fprintln(r.out, "（/chip N 送出）")
}

func (r *TermRenderer) ShowTyping() {
	r.Transcript.ShowTyping()
	fmt.Fprintf(r.out, "助理 ▏%s\n", typingText)
}

func (r *TermRenderer) Clear() {
	r.Transcript.Clear()
	fmt.Fprintln(r.out, "────────────────────")
}
