package response

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSuccess(t *testing.T) {
	data := map[string]string{"name": "test"}
	resp := Success(data)

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.Data == nil {
		t.Error("Expected data to be set")
	}
	if resp.Error != nil {
		t.Error("Expected error to be nil")
	}
}

func TestSuccess_JSONFormat(t *testing.T) {
	data := map[string]string{"id": "123"}
	resp := Success(data)

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if parsed["success"] != true {
		t.Errorf("Expected success=true, got %v", parsed["success"])
	}
	if _, ok := parsed["error"]; ok {
		t.Error("Expected error field to be omitted")
	}
}

func TestError(t *testing.T) {
	resp := Error(ErrCodeNotFound, "Event not found")

	if resp.Success {
		t.Error("Expected success to be false")
	}
	if resp.Data != nil {
		t.Error("Expected data to be nil")
	}
	if resp.Error == nil {
		t.Fatal("Expected error to be set")
	}
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("Expected code %s, got %s", ErrCodeNotFound, resp.Error.Code)
	}
	if resp.Error.Message != "Event not found" {
		t.Errorf("Expected message 'Event not found', got '%s'", resp.Error.Message)
	}
}

func TestErrorWithDetails(t *testing.T) {
	details := map[string]string{"player_tag": "required"}
	resp := ErrorWithDetails(ErrCodeBadRequest, "Validation failed", details)

	if resp.Error == nil {
		t.Fatal("Expected error to be set")
	}
	if resp.Error.Details["player_tag"] != "required" {
		t.Errorf("Expected details to carry player_tag, got %v", resp.Error.Details)
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInternalError, http.StatusInternalServerError},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeAlreadyClosed, http.StatusConflict},
		{ErrCodeDuplicateSignup, http.StatusConflict},
		{ErrCodeRegistrationClosed, http.StatusForbidden},
		{ErrCodeLookupFailed, http.StatusBadGateway},
		{ErrCodeInconsistent, http.StatusInternalServerError},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetHTTPStatus(tt.code); got != tt.want {
				t.Errorf("GetHTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestCommonErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		resp     *Response
		wantCode string
		wantMsg  string
	}{
		{"bad request", BadRequest("bad input"), ErrCodeBadRequest, "bad input"},
		{"unauthorized default message", Unauthorized(""), ErrCodeUnauthorized, "Authentication required"},
		{"forbidden default message", Forbidden(""), ErrCodeForbidden, "Access denied"},
		{"not found default message", NotFound(""), ErrCodeNotFound, "Resource not found"},
		{"internal default message", InternalError(""), ErrCodeInternalError, "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.resp.Error == nil {
				t.Fatal("Expected error to be set")
			}
			if tt.resp.Error.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, tt.resp.Error.Code)
			}
			if tt.resp.Error.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, tt.resp.Error.Message)
			}
		})
	}
}
