package interceptors

import (
	"encoding/json"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// TokenCount annotates Bedrock calls with prompt and completion token counts
// in the metadata scratchpad. The encoder loads once; when it cannot be
// loaded (offline environments) the hook declines every call.
type TokenCount struct {
	log zerolog.Logger

	once   sync.Once
	enc    *tiktoken.Tiktoken
	encErr error
}

// Name implements intercept.Interceptor.
func (t *TokenCount) Name() string { return "token_count" }

// InterceptCall implements intercept.CallInterceptor.
func (t *TokenCount) InterceptCall(meta *intercept.CallMetadata) *intercept.CallMetadata {
	enc := t.encoder()
	if enc == nil || len(meta.Args) < 2 {
		return nil
	}
	text := asText(meta.Args[1])
	if text == "" {
		return nil
	}
	meta.ExtraData["prompt_tokens"] = len(enc.Encode(text, nil, nil))
	return nil
}

// InterceptResult implements intercept.ResultInterceptor.
func (t *TokenCount) InterceptResult(result any, meta *intercept.CallMetadata) (any, *intercept.CallMetadata) {
	enc := t.encoder()
	if enc == nil {
		return result, nil
	}
	if text := asText(result); text != "" {
		meta.ExtraData["completion_tokens"] = len(enc.Encode(text, nil, nil))
	}
	return result, nil
}

func (t *TokenCount) encoder() *tiktoken.Tiktoken {
	t.once.Do(func() {
		t.enc, t.encErr = tiktoken.GetEncoding("cl100k_base")
		if t.encErr != nil {
			t.log.Warn().Err(t.encErr).Msg("token encoder unavailable, token_count disabled")
		}
	})
	return t.enc
}

// asText flattens a payload to text for counting: strings as-is, tables as
// their JSON form.
func asText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}
