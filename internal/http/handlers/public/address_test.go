package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/krishimart/krishimart/internal/http/response"

	"github.com/gin-gonic/gin"
)

func TestCreateAddressMissingFieldsReturnsFieldErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user_id", uint(7))
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/addresses",
		strings.NewReader(`{"city":"Bengaluru"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h := &Handler{}
	h.CreateAddress(c)

	var body struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
		Data       struct {
			Errors []response.FieldError `json:"errors"`
		} `json:"data"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if body.StatusCode != response.CodeUnprocessable {
		t.Fatalf("status code want %d got %d", response.CodeUnprocessable, body.StatusCode)
	}
	if len(body.Data.Errors) == 0 {
		t.Fatalf("expected field errors, got %s", recorder.Body.String())
	}

	seen := make(map[string]bool, len(body.Data.Errors))
	for _, fe := range body.Data.Errors {
		if fe.Message == "" {
			t.Fatalf("field %s missing message", fe.Field)
		}
		seen[fe.Field] = true
	}
	for _, field := range []string{"full_name", "phone", "line1", "state", "postal_code"} {
		if !seen[field] {
			t.Fatalf("field %s missing from errors: %s", field, recorder.Body.String())
		}
	}
}
