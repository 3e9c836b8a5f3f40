package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/internal/history"
	pkggrpc "github.com/msto63/pratt/pkg/core/grpc"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fixture struct {
	service  *Service
	store    *history.SQLiteStore
	registry *prometheus.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := history.Open(history.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	svc, err := NewService(ServiceConfig{
		Grammar:        grammar.Default(),
		MaxInputLength: 64,
		CacheSize:      16,
		CacheTTL:       time.Minute,
		History:        store,
		Metrics:        metrics,
		Logger:         mdwlog.Discard(),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(svc.Close)

	return &fixture{service: svc, store: store, registry: registry}
}

func (f *fixture) counter(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func intPtr(i int) *int { return &i }

func TestService_Evaluate(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  Request
		want Response
	}{
		{
			name: "precedence",
			req:  Request{Expression: "2+3*4"},
			want: Response{Expression: "2+3*4", Mode: ModeEval, Result: "14", Value: 14.0},
		},
		{
			name: "boolean",
			req:  Request{Expression: "1 < 2", Mode: "EVAL"},
			want: Response{Expression: "1 < 2", Mode: ModeEval, Result: "true", Value: true},
		},
		{
			name: "tree",
			req:  Request{Expression: "-3+4", Mode: ModeTree},
			want: Response{
				Expression: "-3+4", Mode: ModeTree,
				Result: "(+ (- 3) 4)", Tree: "(+ (- 3) 4)",
				Pretty: "(+\n  (-\n    3)\n  4)", Nodes: 4, Depth: 3,
			},
		},
		{
			name: "unclosed group",
			req:  Request{Expression: "(1+2"},
			want: Response{Expression: "(1+2", Mode: ModeEval, Error: &ErrorInfo{
				Code:     "UNEXPECTED_TOKEN",
				Category: "syntax",
				Kind:     "unexpected_token",
				Message:  `unexpected end of input at token 4, expected ")"`,
				Index:    intPtr(4),
				Offset:   intPtr(4),
				Caret:    "(1+2\n    ^",
			}},
		},
		{
			name: "division by zero",
			req:  Request{Expression: "1/0"},
			want: Response{Expression: "1/0", Mode: ModeEval, Error: &ErrorInfo{
				Code:     "DIVISION_BY_ZERO",
				Category: "evaluation",
				Message:  "div: division by zero",
			}},
		},
	}

	ignore := cmpopts.IgnoreFields(Response{}, "ID", "DurationMs", "Cached")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.service.Evaluate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got.ID == "" {
				t.Error("Evaluate() returned no ID")
			}
			if diff := cmp.Diff(&tt.want, got, ignore); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestService_InvalidRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty expression", Request{Expression: "   "}},
		{"unknown mode", Request{Expression: "1", Mode: "compile"}},
		{"too long", Request{Expression: strings.Repeat("1+", 40) + "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Evaluate(context.Background(), tt.req)
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
				t.Errorf("Evaluate() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	if got := f.counter(t, "pratt_requests_total", map[string]string{"mode": "unknown", "outcome": OutcomeRejected}); got != 1 {
		t.Errorf("rejected unknown-mode requests = %v, want 1", got)
	}
}

func TestService_CacheHistoryAndMetrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, _ := f.service.Evaluate(ctx, Request{Expression: "2^3^2"})
	second, _ := f.service.Evaluate(ctx, Request{Expression: "2^3^2"})
	if first.Cached || !second.Cached {
		t.Errorf("Cached = %v, %v, want false, true", first.Cached, second.Cached)
	}
	if first.ID == second.ID {
		t.Error("cached responses share an ID")
	}
	if second.Result != "512" {
		t.Errorf("cached Result = %q, want 512", second.Result)
	}

	if _, err := f.service.Evaluate(ctx, Request{Expression: ")"}); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	count, err := f.store.Count(ctx)
	if err != nil || count != 3 {
		t.Errorf("history Count() = %d, %v, want 3", count, err)
	}
	failed, _ := f.store.Query(ctx, history.Filter{FailedOnly: true})
	if len(failed) != 1 || failed[0].ErrorCode != "MISSING_PREFIX_HANDLER" {
		t.Errorf("failed history entries = %+v, want one MISSING_PREFIX_HANDLER", failed)
	}
	if _, err := f.store.Get(ctx, second.ID); err != nil {
		t.Errorf("history entry for response %s: %v", second.ID, err)
	}

	if got := f.counter(t, "pratt_requests_total", map[string]string{"mode": ModeEval, "outcome": OutcomeOK}); got != 2 {
		t.Errorf("ok requests = %v, want 2", got)
	}
	if got := f.counter(t, "pratt_errors_total", map[string]string{"code": "MISSING_PREFIX_HANDLER"}); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := f.counter(t, "pratt_cache_hits_total", nil); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
}

func TestService_SelfTest(t *testing.T) {
	f := newFixture(t)
	if err := f.service.SelfTest(context.Background()); err != nil {
		t.Errorf("SelfTest() error = %v", err)
	}
}

func newHTTPServer(t *testing.T, f *fixture) *httptest.Server {
	t.Helper()
	srv := New(Config{Gatherer: f.registry, Logger: mdwlog.Discard()}, f.service)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestService_LogsTimedEvaluation(t *testing.T) {
	var buf bytes.Buffer
	svc, err := NewService(ServiceConfig{
		Grammar: grammar.Default(),
		Logger:  mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatJSON, Output: &buf}),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(svc.Close)

	ctx := pkggrpc.WithRequestID(context.Background(), "req-7")
	resp, err := svc.Evaluate(ctx, Request{Expression: "1+", Mode: ModeTree})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log output is not one JSON entry: %v\n%s", err, buf.String())
	}
	want := map[string]interface{}{
		"message":    "Expression evaluation completed",
		"request_id": "req-7",
		"mode":       ModeTree,
		"code":       string(mdwerror.CodeMissingPrefix),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("log %s = %v, want %v", k, entry[k], v)
		}
	}
	if got, _ := entry["duration_ms"].(float64); got != resp.DurationMs {
		t.Errorf("log duration_ms = %v, want %v", entry["duration_ms"], resp.DurationMs)
	}
}

func TestService_LogsRejectedRequest(t *testing.T) {
	var buf bytes.Buffer
	svc, err := NewService(ServiceConfig{
		Grammar: grammar.Default(),
		Logger:  mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatJSON, Output: &buf}),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(svc.Close)

	if _, err := svc.Evaluate(context.Background(), Request{Expression: "1", Mode: "sql"}); err == nil {
		t.Fatal("Evaluate() error = nil, want INVALID_INPUT")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log output is not one JSON entry: %v\n%s", err, buf.String())
	}
	want := map[string]interface{}{
		"message":    "Expression evaluation failed",
		"level":      "info",
		"mode":       "sql",
		"error_code": string(mdwerror.CodeInvalidInput),
		"success":    false,
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("log %s = %v, want %v", k, entry[k], v)
		}
	}
}

func postEvaluate(t *testing.T, ts *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /v1/evaluate error = %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestHTTP_Evaluate(t *testing.T) {
	ts := newHTTPServer(t, newFixture(t))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{"success", `{"expression":"(1+2)*3"}`, http.StatusOK, "result", "9"},
		{"tree", `{"expression":"1+2*3","mode":"tree"}`, http.StatusOK, "tree", "(+ 1 (* 2 3))"},
		{"syntax error", `{"expression":"1+"}`, http.StatusUnprocessableEntity, "result", ""},
		{"invalid json", `{"expression":`, http.StatusBadRequest, "code", "INVALID_INPUT"},
		{"empty", `{"expression":""}`, http.StatusBadRequest, "error", "expression is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := postEvaluate(t, ts, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, data)
			}
			if got := resp.Header.Get("X-Request-ID"); got != "req-42" {
				t.Errorf("X-Request-ID = %q, want req-42", got)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(data, &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			got, _ := body[tt.wantField].(string)
			if got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantField, got, tt.wantValue)
			}
		})
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	ts := newHTTPServer(t, f)

	postEvaluate(t, ts, `{"expression":"1"}`)
	postEvaluate(t, ts, `{"expression":"1"}`)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	var report struct {
		Status string `json:"status"`
		Checks []struct {
			Name    string                 `json:"name"`
			Details map[string]interface{} `json:"details"`
		} `json:"checks"`
	}
	json.NewDecoder(resp.Body).Decode(&report)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || report.Status != "healthy" {
		t.Errorf("GET /health = %d %q, want 200 healthy", resp.StatusCode, report.Status)
	}

	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"cache", "engine", "history"}, names); diff != "" {
		t.Fatalf("health checks mismatch (-want +got):\n%s", diff)
	}
	wantCache := map[string]interface{}{"hits": 1.0, "misses": 1.0, "size": 1.0, "hit_rate": 50.0}
	if diff := cmp.Diff(wantCache, report.Checks[0].Details); diff != "" {
		t.Errorf("cache details mismatch (-want +got):\n%s", diff)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Contains(data, []byte(`pratt_requests_total{mode="eval",outcome="ok"} 2`)) {
		t.Errorf("/metrics does not report the requests:\n%s", data)
	}
}

func TestWebSocket(t *testing.T) {
	ts := newHTTPServer(t, newFixture(t))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	exchange := func(msg string) map[string]interface{} {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
		var resp map[string]interface{}
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return resp
	}

	if resp := exchange(`{"type":"ping"}`); resp["type"] != MessagePong {
		t.Errorf("ping answered with %v, want pong", resp["type"])
	}

	resp := exchange(`{"type":"evaluate","payload":{"expression":"true ? 1 : 2"}}`)
	payload, _ := resp["payload"].(map[string]interface{})
	if resp["type"] != MessageResult || payload["result"] != "1" {
		t.Errorf("evaluate answered with %v, want result 1", resp)
	}

	resp = exchange(`{"type":"evaluate","payload":{"expression":"1 )"}}`)
	payload, _ = resp["payload"].(map[string]interface{})
	if resp["type"] != MessageError || payload["code"] != "UNEXPECTED_TOKEN" || payload["offset"] != 2.0 {
		t.Errorf("bad expression answered with %v, want UNEXPECTED_TOKEN at offset 2", resp)
	}

	resp = exchange(`{"type":"compile"}`)
	if resp["type"] != MessageError {
		t.Errorf("unknown type answered with %v, want error", resp["type"])
	}
}

func startGRPC(t *testing.T, f *fixture) *grpc.ClientConn {
	t.Helper()

	srv := New(Config{Gatherer: f.registry, Logger: mdwlog.Discard()}, f.service)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.GRPC().Serve(lis) }()
	t.Cleanup(srv.GRPC().Stop)

	conn, err := pkggrpc.Dial(pkggrpc.DefaultClientConfig("passthrough:///bufnet"),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGRPC_Evaluate(t *testing.T) {
	conn := startGRPC(t, newFixture(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := EvaluateRemote(ctx, conn, Request{Expression: "if 1 < 2 then 10 else 20 end"})
	if err != nil {
		t.Fatalf("EvaluateRemote() error = %v", err)
	}
	if resp.Result != "10" || resp.Error != nil {
		t.Errorf("EvaluateRemote() = %+v, want result 10", resp)
	}

	resp, err = EvaluateRemote(ctx, conn, Request{Expression: "(1+2"})
	if err != nil {
		t.Fatalf("EvaluateRemote() error = %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "UNEXPECTED_TOKEN" || resp.Error.Offset == nil || *resp.Error.Offset != 4 {
		t.Errorf("EvaluateRemote() error info = %+v, want UNEXPECTED_TOKEN at offset 4", resp.Error)
	}
}

func TestGRPC_StatusCodes(t *testing.T) {
	conn := startGRPC(t, newFixture(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		name string
		req  map[string]interface{}
		want codes.Code
	}{
		{"parse failure", map[string]interface{}{"expression": ")"}, codes.InvalidArgument},
		{"empty", map[string]interface{}{"expression": ""}, codes.InvalidArgument},
		{"bad mode type", map[string]interface{}{"expression": "1", "mode": 3.0}, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := structpb.NewStruct(tt.req)
			if err != nil {
				t.Fatalf("NewStruct() error = %v", err)
			}
			err = conn.Invoke(ctx, EvaluateMethod, in, new(structpb.Struct))
			if got := status.Code(err); got != tt.want {
				t.Errorf("status = %v, want %v (err %v)", got, tt.want, err)
			}
		})
	}
}
