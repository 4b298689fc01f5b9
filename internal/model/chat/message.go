package chat

// Sender 消息发送方
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Kind 转录条目的内容类型
type Kind string

const (
	KindText        Kind = "text"
	KindProductList Kind = "productList"
)

// Product is a recommended item surfaced inside the conversation. Price is
// display-only; ID is the sole handle for cart actions.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Currency string
	ImageURL string
}

// CartItem is the outbound add-to-cart payload. Nothing is retained
// client-side; the backend owns cart state.
type CartItem struct {
	ConversationID string
	ProductID      string
	Quantity       int
}
