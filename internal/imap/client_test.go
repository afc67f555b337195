package imap

import "testing"

func TestStandardClientRequiresConnection(t *testing.T) {
	client := NewStandardClient("imap.example.com:993", "user", "pass", "INBOX")

	if err := client.Keepalive(); err == nil {
		t.Error("Expected Keepalive to fail without a connection")
	} else if !IsConnection(err) {
		t.Errorf("Expected a connection-class error, got: %v", err)
	}

	if _, err := client.ListUIDs(CriteriaUnseen); err == nil {
		t.Error("Expected ListUIDs to fail without a connection")
	} else if !IsConnection(err) {
		t.Errorf("Expected a connection-class error, got: %v", err)
	}

	if _, err := client.FetchMetadata(1); err == nil {
		t.Error("Expected FetchMetadata to fail without a connection")
	} else if !IsConnection(err) {
		t.Errorf("Expected a connection-class error, got: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Expected Close without a connection to be a no-op, got: %v", err)
	}
}
