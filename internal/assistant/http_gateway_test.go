package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"intent":"explain_concept","confidence":0.7,"uncertaintyExplanation":"Perseverance means sticking with it.","suggestedActions":[{"label":"Replay clip","actionType":"REPLAY","payload":"audio_p1"}]}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, time.Second)
	resp, err := gw.Send(context.Background(), "Explain 'Perseverance'", ContextSnapshot{
		Screen:    "LessonSheet",
		GoalTitle: strPtr("Improve English"),
		DayNumber: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, "explain_concept", resp.Intent)
	require.True(t, resp.HasUncertainty())
	assert.Equal(t, "Perseverance means sticking with it.", *resp.UncertaintyExplanation)
	require.Len(t, resp.SuggestedActions, 1)
	assert.Equal(t, "REPLAY", resp.SuggestedActions[0].ActionType)

	assert.Equal(t, "Explain 'Perseverance'", got["message"])
	ctx, ok := got["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "LessonSheet", ctx["screen"])
	assert.Equal(t, "Improve English", ctx["goalTitle"])
	assert.Equal(t, float64(7), ctx["dayNumber"])
	assert.Equal(t, []any{}, ctx["topics"])
}

func TestHTTPGateway_OmitsMissingGoal(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"intent":"x","confidence":0}`))
	}))
	defer srv.Close()

	_, err := NewHTTPGateway(srv.URL, time.Second).Send(context.Background(), "hi", ContextSnapshot{Screen: "GoalSelection"})
	require.NoError(t, err)

	ctx := got["context"].(map[string]any)
	_, hasGoal := ctx["goalTitle"]
	assert.False(t, hasGoal)
}

func TestHTTPGateway_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    FailureKind
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want:    KindUnavailable,
		},
		{
			name:    "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
			want:    KindUnavailable,
		},
		{
			name:    "gateway timeout",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusGatewayTimeout) },
			want:    KindTimeout,
		},
		{
			name:    "request timeout",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusRequestTimeout) },
			want:    KindTimeout,
		},
		{
			name:    "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"intent":`)) },
			want:    KindMalformedPayload,
		},
		{
			name:    "schema violation",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"confidence":0.2}`)) },
			want:    KindMalformedPayload,
		},
		{
			name: "slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			want: KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPGateway(srv.URL, 50*time.Millisecond).Send(context.Background(), "hi", ContextSnapshot{})
			var gwErr *GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tt.want, gwErr.Kind)
		})
	}
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPGateway(url, time.Second).Send(context.Background(), "hi", ContextSnapshot{})
	assert.Equal(t, KindUnavailable, FailureOf(err))
}
