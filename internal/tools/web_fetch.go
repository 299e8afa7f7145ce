package tools

import (
	"bytes"
	"context"

	"github.com/sandboxagent/sandboxagent/internal/fetch"
	"github.com/sandboxagent/sandboxagent/llm"
	"github.com/sandboxagent/sandboxagent/models"
	"github.com/sandboxagent/sandboxagent/utils"
)

// WebFetchSchema is the JSON schema advertised to the LLM for web-fetch.
var WebFetchSchema = llm.ToolSchema{
	Name:        "web-fetch",
	Description: "Fetch an http(s) URL from the host, refusing private/loopback/reserved destinations.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url":    map[string]interface{}{"type": "string"},
			"method": map[string]interface{}{"type": "string", "description": "defaults to GET"},
		},
		"required": []string{"url"},
	},
}

// NewWebFetchHandler binds a Fetcher into a Handler.
func NewWebFetchHandler(f *fetch.Fetcher) Handler {
	return func(ctx context.Context, args map[string]interface{}) (string, *int, bool, models.ErrorKind, error) {
		rawURL, _ := args["url"].(string)
		method, _ := args["method"].(string)
		if method == "" {
			method = "GET"
		}

		res, err := f.Fetch(ctx, rawURL, method, nil, bytes.NewReader(nil))
		if err != nil {
			ferr, ok := err.(*fetch.Error)
			kind := models.ErrHTTPError
			if ok {
				kind = models.ErrorKind(ferr.Kind)
			}
			return err.Error(), nil, false, kind, err
		}

		body := utils.Sanitize(string(res.Body))
		status := res.StatusCode
		return body, &status, res.Truncated, models.ErrNone, nil
	}
}
