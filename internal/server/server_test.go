package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/treescope/treescope/pkg/pipeline"
	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	a := &tree.Node{Name: "a", LeafCount: 1}
	b := &tree.Node{Name: "b", LeafCount: 1}
	root := &tree.Node{Name: "root", LeafCount: 2, Children: []*tree.Node{a, b}}
	space := layout.Space{SlotWidth: 50, YSpacing: 100, TotalLeaves: 2, TotalLevels: 2}
	layout.Assign(root, space)

	result := &pipeline.Result{Tree: root, Space: space, TreeHash: "testhash"}
	srv := New(result, pipeline.Options{Root: "/tmp", Labels: true, TextSize: 20}, nil)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/healthz")

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("status field = %q, want ok", out["status"])
	}
	if out["tree"] != "testhash" {
		t.Errorf("tree field = %q, want testhash", out["tree"])
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestTreeEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/api/tree")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var doc struct {
		Space layout.Space `json:"space"`
		Nodes []struct {
			Name   string `json:"name"`
			Parent int    `json:"parent"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("node count = %d, want 3", len(doc.Nodes))
	}
	if doc.Nodes[0].Name != "root" || doc.Nodes[0].Parent != -1 {
		t.Errorf("first record = %+v, want root with parent -1", doc.Nodes[0])
	}
	if doc.Space.SlotWidth != 50 {
		t.Errorf("slot width = %v, want 50", doc.Space.SlotWidth)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/api/layout")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Extent    float64 `json:"extent"`
		NodeCount int     `json:"node_count"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Extent != 100 {
		t.Errorf("extent = %v, want 100", out.Extent)
	}
	if out.NodeCount != 3 {
		t.Errorf("node count = %d, want 3", out.NodeCount)
	}
}

func TestNearestEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/api/nearest?x=26&y=100")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out nearestResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Name != "a" {
		t.Errorf("nearest = %q, want a", out.Name)
	}
	if !out.Leaf {
		t.Error("a should be a leaf")
	}
}

func TestNearestEndpointBadParams(t *testing.T) {
	ts := testServer(t)

	for _, path := range []string{"/api/nearest", "/api/nearest?x=1", "/api/nearest?x=abc&y=2"} {
		resp, _ := get(t, ts.URL+path)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestSVGEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts.URL+"/render.svg")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", got)
	}
	if !strings.HasPrefix(string(body), "<svg ") {
		t.Error("body should be an svg document")
	}
	// Labels enabled in the test options
	if !strings.Contains(string(body), ">root</text>") {
		t.Error("root label missing")
	}
}
