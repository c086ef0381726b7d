package nlu

import (
	"fmt"
	"net/http"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"forma/internal/scene"
)

// NewBackend builds the interpreter named by the --backend flag.
// Credentials and model overrides come from the environment:
// OPENAI_API_KEY, FORMA_LLM_MODEL, FORMA_OLLAMA_URL.
func NewBackend(backend string, httpClient *http.Client, reg *scene.Registry) (Interpreter, error) {
	switch backend {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if httpClient != nil {
			opts = append(opts, option.WithHTTPClient(httpClient))
		}
		return NewOpenAI(openai.NewClient(opts...), os.Getenv("FORMA_LLM_MODEL")), nil

	case "ollama":
		return NewOllama(os.Getenv("FORMA_OLLAMA_URL"), os.Getenv("FORMA_LLM_MODEL"), httpClient), nil

	case "offline":
		return NewFallback(reg), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
