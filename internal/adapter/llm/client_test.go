package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eva-framework/internal/domain/screening"
	uc "eva-framework/internal/usecase/screening"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, nil)
}

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestProduce_NoKeyUsesFallback(t *testing.T) {
	c := NewClient(Config{}, nil)
	if c.Enabled() {
		t.Fatalf("client without key should be disabled")
	}
	got := c.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{})
	if got.Source != uc.SourceFallback || len(got.Items) != 4 {
		t.Fatalf("unexpected fallback: %+v", got)
	}
}

func TestProduce_Success(t *testing.T) {
	var gotReq chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		writeCompletion(t, w, "- 住宅購入後の家計の見通しを確認する\n- 短い\n2. 転職予定の有無について話し合う")
	})

	age := 40
	got := c.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{Age: &age, Job: "employee", IncomeMan: 600})
	if got.Source != uc.SourceLLM {
		t.Fatalf("source = %s, want llm", got.Source)
	}
	want := []string{"住宅購入後の家計の見通しを確認する", "転職予定の有無について話し合う"}
	if strings.Join(got.Items, "|") != strings.Join(want, "|") {
		t.Fatalf("items = %v, want %v", got.Items, want)
	}

	if gotReq.Model != DefaultModel || len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if strings.Contains(gotReq.Messages[1].Content, "600") {
		t.Fatalf("user prompt should not carry figures: %q", gotReq.Messages[1].Content)
	}
}

func TestProduce_Non2xxUsesFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	got := c.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{})
	if got.Source != uc.SourceFallback {
		t.Fatalf("source = %s, want fallback", got.Source)
	}
}

func TestProduce_EmptyChoicesUsesFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	if got := c.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{}); got.Source != uc.SourceFallback {
		t.Fatalf("source = %s, want fallback", got.Source)
	}
}

func TestProduce_OnlyShortLinesUsesFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(t, w, "- はい\n- OK")
	})
	if got := c.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{}); got.Source != uc.SourceFallback {
		t.Fatalf("source = %s, want fallback", got.Source)
	}
}

func TestProduce_NetworkErrorUsesFallback(t *testing.T) {
	c := NewClient(Config{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)
	if got := c.ProduceDiscussionPoints(context.Background(), screening.ApplicantInput{}); got.Source != uc.SourceFallback {
		t.Fatalf("source = %s, want fallback", got.Source)
	}
}

func TestParsePoints(t *testing.T) {
	text := strings.Join([]string{
		"",
		"・返済期間の考え方を整理しましょう",
		"* 教育費の見通しを確認しましょう",
		"1) 勤務先の安定性について話しましょう",
		"３行目",
		"•  繰上返済の方針を決めておきましょう",
		"- 五つ目は捨てられるはずの論点です",
	}, "\n")

	got := ParsePoints(text)
	want := []string{
		"返済期間の考え方を整理しましょう",
		"教育費の見通しを確認しましょう",
		"勤務先の安定性について話しましょう",
		"繰上返済の方針を決めておきましょう",
	}
	if len(got) != MaxPoints {
		t.Fatalf("len = %d, want %d (%v)", len(got), MaxPoints, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFallback_ReturnsCopy(t *testing.T) {
	a := Fallback()
	a.Items[0] = "changed"
	if Fallback().Items[0] == "changed" {
		t.Fatalf("Fallback must not share its backing slice")
	}
}
