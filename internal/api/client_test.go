package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shoplite/chatwidget/internal/api"
	"github.com/shoplite/chatwidget/internal/model/chat"
)

func newClient(srv *httptest.Server) *api.Client {
	return api.NewClient(srv.URL+"/v1", "demo_key", 5*time.Second)
}

func TestFetchSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/settings" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "demo_key" {
			t.Fatalf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"welcome_text":"嗨","suggested_queries":["藍牙耳機","充電器"]}`))
	}))
	defer srv.Close()

	settings, err := newClient(srv).FetchSettings(context.Background())
	if err != nil {
		t.Fatalf("FetchSettings err: %v", err)
	}
	if settings.WelcomeText != "嗨" {
		t.Fatalf("unexpected welcome text %q", settings.WelcomeText)
	}
	if len(settings.SuggestedQueries) != 2 {
		t.Fatalf("unexpected suggestions %v", settings.SuggestedQueries)
	}
}

func TestFetchSettingsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newClient(srv).FetchSettings(context.Background()); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestSendMessageParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/message" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"conversation_id": "abc",
			"messages": [
				{"type":"text","content":"幫你找到"},
				{"type":"card_hint","content":"ignored"},
				{"type":"text","content":"還有這些"}
			],
			"products": [
				{"id":"p1","name":"耳機A","image_url":"http://img/1","price":{"value":199,"currency":"CNY"}}
			]
		}`))
	}))
	defer srv.Close()

	resp, err := newClient(srv).SendMessage(context.Background(), "", "藍牙耳機", "zh-TW")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if resp.ConversationID != "abc" {
		t.Fatalf("unexpected conversation id %q", resp.ConversationID)
	}
	if len(resp.Texts) != 2 || resp.Texts[0] != "幫你找到" || resp.Texts[1] != "還有這些" {
		t.Fatalf("non-text entries must be skipped, got %v", resp.Texts)
	}
	if len(resp.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(resp.Products))
	}
	want := chat.Product{ID: "p1", Name: "耳機A", Price: 199, Currency: "CNY", ImageURL: "http://img/1"}
	if resp.Products[0] != want {
		t.Fatalf("unexpected product %+v", resp.Products[0])
	}
}

func TestSendMessageNumericIdentifiers(t *testing.T) {
	// Some backends emit numeric ids; the client treats them as opaque strings.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conversation_id": 42, "messages": [], "products": [{"id": 7, "name": "耳機", "price": {"value": 59}}]}`))
	}))
	defer srv.Close()

	resp, err := newClient(srv).SendMessage(context.Background(), "", "耳機", "zh-TW")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if resp.ConversationID != "42" {
		t.Fatalf("expected conversation id 42, got %q", resp.ConversationID)
	}
	if resp.Products[0].ID != "7" {
		t.Fatalf("expected product id 7, got %q", resp.Products[0].ID)
	}
}

func TestSendMessageStructuredContentKinds(t *testing.T) {
	// A future message kind may carry object content; the exchange must
	// still succeed and the text entries around it must survive.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"conversation_id": "abc",
			"messages": [
				{"type":"rich_card","content":{"title":"x","actions":[1,2]}},
				{"type":"text","content":"幫你找到"},
				{"type":"text","content":{"oops":"not a string"}}
			],
			"products": []
		}`))
	}))
	defer srv.Close()

	resp, err := newClient(srv).SendMessage(context.Background(), "", "藍牙耳機", "zh-TW")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if len(resp.Texts) != 1 || resp.Texts[0] != "幫你找到" {
		t.Fatalf("expected only the renderable text entry, got %v", resp.Texts)
	}
}

func TestSendMessageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"conversation_id":`))
	}))
	defer srv.Close()

	if _, err := newClient(srv).SendMessage(context.Background(), "", "hi", "zh-TW"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newClient(srv).AddToCart(context.Background(), chat.CartItem{ConversationID: "abc", ProductID: "p1"})
	if err != nil {
		t.Fatalf("AddToCart err: %v", err)
	}
	if want := `"quantity":1`; !strings.Contains(gotBody, want) {
		t.Fatalf("expected %s in body %s", want, gotBody)
	}
}
