package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/skillbuilder/internal/llm"
)

// AssistantSchema is the JSON schema every assistant reply must satisfy,
// whichever gateway produced it.
var AssistantSchema = &llm.Schema{
	Name:        "assistant-response",
	Description: "Structured reply from the learning assistant",
	Lenient:     true,
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type":        "string",
				"description": "Short label for what the learner is asking about, e.g. explain_concept or troubleshoot_playback",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "How confident the assistant is in this answer, from 0 to 1",
			},
			"uncertaintyExplanation": map[string]any{
				"type":        "string",
				"description": "Plain-language answer or a note on what the assistant is unsure about",
			},
			"steps": map[string]any{
				"type":        "array",
				"description": "Ordered steps the learner can follow",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":             map[string]any{"type": "string"},
						"title":          map[string]any{"type": "string"},
						"description":    map[string]any{"type": "string"},
						"expectedScreen": map[string]any{"type": "string"},
					},
					"required": []any{"id", "title", "description", "expectedScreen"},
				},
			},
			"checklist": map[string]any{
				"type":        "array",
				"description": "Items the learner can tick off",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"label": map[string]any{"type": "string"},
						"hints": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"id", "label", "hints"},
				},
			},
			"suggestedActions": map[string]any{
				"type":        "array",
				"description": "Actions the learner can take right away",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label":      map[string]any{"type": "string"},
						"actionType": map[string]any{"type": "string"},
						"payload":    map[string]any{"type": "string"},
					},
					"required": []any{"label", "actionType", "payload"},
				},
			},
			"followUps": map[string]any{
				"type":        "array",
				"description": "Questions the learner might ask next",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []any{"intent", "confidence"},
	},
}

// ParseResponse validates raw against AssistantSchema and decodes it.
// Any failure is a MalformedPayload GatewayError.
func ParseResponse(raw json.RawMessage) (*Response, error) {
	if err := llm.ValidateResponse(AssistantSchema, raw); err != nil {
		return nil, &GatewayError{Kind: KindMalformedPayload, Err: err}
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &GatewayError{Kind: KindMalformedPayload, Err: fmt.Errorf("decode assistant response: %w", err)}
	}
	return &resp, nil
}
