package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajmalakeel/tuition-center-api/internal/service"
)

type fakeAnswerProvider struct {
	answer string
	err    error
}

func (f *fakeAnswerProvider) Ask(ctx context.Context, question string) (string, error) {
	return f.answer, f.err
}

func buildAssistantRouter(provider *fakeAnswerProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/assistant/ask", NewAssistantHandler(service.NewAssistantService(provider, zap.NewNop())).Ask)
	return router
}

func TestAssistantAskRoute(t *testing.T) {
	router := buildAssistantRouter(&fakeAnswerProvider{answer: "The mitochondria is the powerhouse of the cell."})

	req, _ := http.NewRequest(http.MethodPost, "/assistant/ask", bytes.NewBufferString(`{"question":"what is a mitochondria"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "powerhouse")
}

func TestAssistantAskRouteEmptyQuestion(t *testing.T) {
	router := buildAssistantRouter(&fakeAnswerProvider{})

	req, _ := http.NewRequest(http.MethodPost, "/assistant/ask", bytes.NewBufferString(`{"question":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAssistantAskRouteUpstreamError(t *testing.T) {
	router := buildAssistantRouter(&fakeAnswerProvider{err: context.DeadlineExceeded})

	req, _ := http.NewRequest(http.MethodPost, "/assistant/ask", bytes.NewBufferString(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadGateway, resp.Code)
}
