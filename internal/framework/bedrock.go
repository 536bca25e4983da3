// Bedrock adapter: exposes a "bedrock" module to user scripts.
//
// One designated target:
//
//	bedrock.invoke(model_id, body) -> decoded response object
//
// Requests are SigV4-signed for the bedrock-runtime service using the
// standard AWS credential chain. Credentials load lazily on the first call
// so dry runs never touch AWS at all.
package framework

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/seamlab/scriptseam/internal/config"
	"github.com/seamlab/scriptseam/internal/intercept"
)

const defaultBedrockTimeout = 2 * time.Minute

// BedrockAdapter binds the Bedrock model runtime into the script environment.
type BedrockAdapter struct {
	region   string
	endpoint string
	skipSign bool
	client   *http.Client
	signer   *v4.Signer
	log      zerolog.Logger

	credsOnce sync.Once
	creds     aws.CredentialsProvider
	credsErr  error
}

// NewBedrock creates the adapter from config.
func NewBedrock(cfg config.BedrockConfig, log zerolog.Logger) (*BedrockAdapter, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultBedrockTimeout
	}

	return &BedrockAdapter{
		region:   region,
		endpoint: endpoint,
		skipSign: cfg.SkipSign,
		client:   &http.Client{Timeout: timeout},
		signer:   v4.NewSigner(),
		log:      log,
	}, nil
}

// Name implements Adapter.
func (a *BedrockAdapter) Name() string { return "bedrock" }

// Targets implements Adapter.
func (a *BedrockAdapter) Targets() []intercept.Target {
	return []intercept.Target{
		{Name: "bedrock.invoke", MinArgs: 2, MaxArgs: 2, Func: a.invoke},
	}
}

// Expose implements Adapter.
func (a *BedrockAdapter) Expose(L *lua.LState, bound map[string]intercept.TargetFunc) error {
	invoke := a.Targets()[0]
	exposeModule(L, "bedrock", map[string]lua.LGFunction{
		"invoke": BindFunc(invoke, bound[invoke.Name]),
	})
	return nil
}

// Close implements Adapter.
func (a *BedrockAdapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

func (a *BedrockAdapter) invoke(args []any, kwargs map[string]any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("bedrock.invoke requires (model_id, body)")
	}
	modelID, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("bedrock.invoke: model_id must be a string")
	}
	body, err := encodeBody(args[1])
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	endpoint := fmt.Sprintf("%s/model/%s/invoke", a.endpoint, url.PathEscape(modelID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if !a.skipSign {
		if err := a.sign(ctx, req, body); err != nil {
			return nil, err
		}
	}

	a.log.Debug().Str("model", modelID).Int("body_bytes", len(body)).Msg("invoking bedrock model")
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bedrock request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bedrock returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if gjson.ValidBytes(data) {
		return gjson.ParseBytes(data).Value(), nil
	}
	return string(data), nil
}

// sign applies SigV4 for bedrock-runtime, loading credentials on first use.
func (a *BedrockAdapter) sign(ctx context.Context, req *http.Request, body []byte) error {
	a.credsOnce.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.region))
		if err != nil {
			a.credsErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		a.creds = cfg.Credentials
	})
	if a.credsErr != nil {
		return a.credsErr
	}

	creds, err := a.creds.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	hash := sha256.Sum256(body)
	return a.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(hash[:]), "bedrock-runtime", a.region, time.Now())
}

func encodeBody(v any) ([]byte, error) {
	switch body := v.(type) {
	case string:
		return []byte(body), nil
	case []byte:
		return body, nil
	case map[string]any, []any:
		return json.Marshal(body)
	default:
		return nil, fmt.Errorf("bedrock.invoke: body must be a string or table")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
