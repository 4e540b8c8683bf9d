package sms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// mockGateway records calls and returns a canned response or error.
type mockGateway struct {
	calls    int
	lastTo   string
	lastMsg  string
	response *SendResponse
	err      error
}

func (m *mockGateway) Send(ctx context.Context, to, message string) (*SendResponse, error) {
	m.calls++
	m.lastTo = to
	m.lastMsg = message
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func successResponse() *SendResponse {
	resp := &SendResponse{}
	resp.MessageData.Recipients = []Recipient{
		{Number: "+254712345678", Status: RecipientStatusSuccess, StatusCode: 101},
	}
	return resp
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendOrderNotificationSuccess(t *testing.T) {
	gateway := &mockGateway{response: successResponse()}
	channel := NewNotificationChannel(gateway, time.Second, testLogger())

	ok := channel.SendOrderNotification(context.Background(), "0712345678", "hello")
	if !ok {
		t.Fatal("expected true for successful delivery")
	}
	if gateway.calls != 1 {
		t.Errorf("gateway called %d times, want 1", gateway.calls)
	}
	if gateway.lastTo != "+254712345678" {
		t.Errorf("gateway called with %q, want normalized +254712345678", gateway.lastTo)
	}
}

func TestSendOrderNotificationInvalidPhone(t *testing.T) {
	gateway := &mockGateway{response: successResponse()}
	channel := NewNotificationChannel(gateway, time.Second, testLogger())

	ok := channel.SendOrderNotification(context.Background(), "12345", "hello")
	if ok {
		t.Fatal("expected false for invalid phone")
	}
	if gateway.calls != 0 {
		t.Errorf("gateway called %d times, want 0", gateway.calls)
	}
}

func TestSendOrderNotificationGatewayError(t *testing.T) {
	gateway := &mockGateway{err: errors.New("connection refused")}
	channel := NewNotificationChannel(gateway, time.Second, testLogger())

	// Must absorb the error and return false, never propagate.
	ok := channel.SendOrderNotification(context.Background(), "0712345678", "hello")
	if ok {
		t.Fatal("expected false when gateway errors")
	}
}

func TestSendOrderNotificationNoSuccessfulRecipient(t *testing.T) {
	resp := &SendResponse{}
	resp.MessageData.Recipients = []Recipient{
		{Number: "+254712345678", Status: "InvalidPhoneNumber", StatusCode: 403},
	}
	gateway := &mockGateway{response: resp}
	channel := NewNotificationChannel(gateway, time.Second, testLogger())

	if channel.SendOrderNotification(context.Background(), "0712345678", "hello") {
		t.Fatal("expected false when no recipient reports success")
	}
}

func TestSendOrderNotificationEmptyRecipients(t *testing.T) {
	gateway := &mockGateway{response: &SendResponse{}}
	channel := NewNotificationChannel(gateway, time.Second, testLogger())

	if channel.SendOrderNotification(context.Background(), "0712345678", "hello") {
		t.Fatal("expected false for empty recipient list")
	}
}
