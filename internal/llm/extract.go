package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pavelanni/mockpaper/internal/model"
)

// ExtractResult pulls the generation result out of a free-text reply. The
// candidate is the span from the first '{' to the last '}', so prose or code
// fences around the object are ignored.
func ExtractResult(raw string) (*model.GenerationResult, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil, ErrUnparseableResponse
	}

	var result model.GenerationResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}
	if !isObject(result.Exam) || !isObject(result.MarkScheme) {
		return nil, ErrSchemaMismatch
	}
	return &result, nil
}

func isObject(m json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(m), []byte("{"))
}
