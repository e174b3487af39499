// Package apilog records every outgoing JSON-RPC request in the database.
package apilog

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/db"
)

const maxBodySize = 64 * 1024 // 64KB

// Sink stores one request row.
type Sink interface {
	InsertAPIRequest(ctx context.Context, arg db.InsertAPIRequestParams) error
}

// Transport is an http.RoundTripper that logs all requests and responses to the database.
type Transport struct {
	inner    http.RoundTripper
	provider string
	sink     Sink
	logger   *zap.Logger
	sync     bool
}

func NewTransport(inner http.RoundTripper, provider string, sink Sink, logger *zap.Logger) *Transport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{inner: inner, provider: provider, sink: sink, logger: logger}
}

func NewHTTPClient(provider string, sink Sink, logger *zap.Logger) *http.Client {
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: NewTransport(http.DefaultTransport, provider, sink, logger),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Capture request body
	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	reqHeaders := headerString(req.Header)

	start := time.Now()
	resp, err := t.inner.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	params := db.InsertAPIRequestParams{
		Provider:       t.provider,
		Method:         req.Method,
		Url:            req.URL.String(),
		RpcMethod:      toNullString(rpcMethod(reqBody)),
		RequestHeaders: toNullString(reqHeaders),
		RequestBody:    toNullString(truncate(string(reqBody))),
		DurationMs:     sql.NullInt64{Int64: duration, Valid: true},
	}

	if err != nil {
		params.Error = toNullString(err.Error())
	} else {
		// Capture response body
		var respBody []byte
		if resp.Body != nil {
			respBody, _ = io.ReadAll(resp.Body)
			resp.Body = io.NopCloser(bytes.NewReader(respBody))
		}
		params.ResponseStatus = sql.NullInt64{Int64: int64(resp.StatusCode), Valid: true}
		params.ResponseHeaders = toNullString(headerString(resp.Header))
		params.ResponseBody = toNullString(truncate(string(respBody)))
	}

	if t.sync {
		t.insert(params)
	} else {
		// Insert asynchronously so we don't slow down the request
		go t.insert(params)
	}

	return resp, err
}

func (t *Transport) insert(params db.InsertAPIRequestParams) {
	if dbErr := t.sink.InsertAPIRequest(context.Background(), params); dbErr != nil {
		t.logger.Warn("apilog: failed to log request",
			zap.String("method", params.Method),
			zap.String("rpc_method", params.RpcMethod.String),
			zap.Error(dbErr))
	}
}

// rpcMethod extracts the JSON-RPC method, joining batch methods with commas.
func rpcMethod(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	type call struct {
		Method string `json:"method"`
	}
	if body[0] == '[' {
		var batch []call
		if json.Unmarshal(body, &batch) != nil {
			return ""
		}
		methods := make([]string, 0, len(batch))
		for _, c := range batch {
			methods = append(methods, c.Method)
		}
		return strings.Join(methods, ",")
	}

	var c call
	if json.Unmarshal(body, &c) != nil {
		return ""
	}
	return c.Method
}

func headerString(h http.Header) string {
	var buf bytes.Buffer
	h.Write(&buf)
	return buf.String()
}

func truncate(s string) string {
	if len(s) > maxBodySize {
		return s[:maxBodySize] + "...[truncated]"
	}
	return s
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
