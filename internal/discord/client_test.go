package discord

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := New("test-token")
	client.baseURL = server.URL
	return client, server
}

func TestSendDirectMessage(t *testing.T) {
	var channelCalls, messageCalls int
	var gotAuth, gotRecipient, gotContent string

	handler := http.NewServeMux()
	handler.HandleFunc("/users/@me/channels", func(w http.ResponseWriter, r *http.Request) {
		channelCalls++
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotRecipient = body["recipient_id"]

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "chan-1"})
	})
	handler.HandleFunc("/channels/chan-1/messages", func(w http.ResponseWriter, r *http.Request) {
		messageCalls++

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotContent = body["content"]

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-1"})
	})

	client, server := newTestClient(handler)
	defer server.Close()

	if err := client.SendDirectMessage("123456789012345678", "hello"); err != nil {
		t.Fatalf("SendDirectMessage() error: %v", err)
	}

	if channelCalls != 1 {
		t.Errorf("Expected 1 channel creation, got %d", channelCalls)
	}
	if messageCalls != 1 {
		t.Errorf("Expected 1 message post, got %d", messageCalls)
	}
	if gotAuth != "Bot test-token" {
		t.Errorf("Expected bot authorization header, got '%s'", gotAuth)
	}
	if gotRecipient != "123456789012345678" {
		t.Errorf("Expected recipient id in create-DM body, got '%s'", gotRecipient)
	}
	if gotContent != "hello" {
		t.Errorf("Expected message content 'hello', got '%s'", gotContent)
	}
}

func TestSendDirectMessageReusesChannel(t *testing.T) {
	var channelCalls, messageCalls int

	handler := http.NewServeMux()
	handler.HandleFunc("/users/@me/channels", func(w http.ResponseWriter, r *http.Request) {
		channelCalls++
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "chan-1"})
	})
	handler.HandleFunc("/channels/chan-1/messages", func(w http.ResponseWriter, r *http.Request) {
		messageCalls++
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-1"})
	})

	client, server := newTestClient(handler)
	defer server.Close()

	if err := client.SendDirectMessage("123456789012345678", "first"); err != nil {
		t.Fatalf("First send error: %v", err)
	}
	if err := client.SendDirectMessage("123456789012345678", "second"); err != nil {
		t.Fatalf("Second send error: %v", err)
	}

	if channelCalls != 1 {
		t.Errorf("Expected the DM channel to be created once, got %d creations", channelCalls)
	}
	if messageCalls != 2 {
		t.Errorf("Expected 2 message posts, got %d", messageCalls)
	}
}

func TestSendDirectMessageAPIError(t *testing.T) {
	var messageCalls int

	handler := http.NewServeMux()
	handler.HandleFunc("/users/@me/channels", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Cannot send messages to this user", "code": 50007}`))
	})
	handler.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		messageCalls++
	})

	client, server := newTestClient(handler)
	defer server.Close()

	err := client.SendDirectMessage("123456789012345678", "hello")
	if err == nil {
		t.Fatal("Expected an error from a rejected DM channel")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Code != 50007 {
		t.Errorf("Expected Discord error code 50007, got %d", apiErr.Code)
	}
	if apiErr.Message != "Cannot send messages to this user" {
		t.Errorf("Unexpected error message: %s", apiErr.Message)
	}

	if messageCalls != 0 {
		t.Errorf("Expected no message post after channel creation failed, got %d", messageCalls)
	}
}

func TestSendDirectMessageNonJSONErrorBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	err := client.SendDirectMessage("123456789012345678", "hello")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "upstream unavailable" {
		t.Errorf("Expected raw body as message, got '%s'", apiErr.Message)
	}
	if apiErr.Code != 0 {
		t.Errorf("Expected no Discord error code, got %d", apiErr.Code)
	}
}
