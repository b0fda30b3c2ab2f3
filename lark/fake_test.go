package lark_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/rageval/lark"
)

const (
	fakeAppID     = "cli_test"
	fakeAppSecret = "secret"
	fakeToken     = "t-fake"
)

type fakeDoc struct {
	revision int
	title    string
	content  *string
}

// fakeLark is an in-memory stand-in for the Lark Open API.
type fakeLark struct {
	mu sync.Mutex

	expire      int
	docs        map[string]fakeDoc
	metaErrs    map[string]string
	contentErrs map[string]string
	// listErrs fails listings keyed like children.
	listErrs map[string]string
	nodes       map[string]*lark.Node
	spaces      map[string]*lark.Space
	// children maps space ID and parent token to listing pages.
	children map[string][][]*lark.Node

	tokenCalls   int
	metaCalls    map[string]int
	listRequests []string
}

func newFakeLark() *fakeLark {
	return &fakeLark{
		expire:      7200,
		docs:        map[string]fakeDoc{},
		metaErrs:    map[string]string{},
		contentErrs: map[string]string{},
		listErrs:    map[string]string{},
		nodes:       map[string]*lark.Node{},
		spaces:      map[string]*lark.Space{},
		children:    map[string][][]*lark.Node{},
		metaCalls:   map[string]int{},
	}
}

func (f *fakeLark) addDoc(id, title, content string, revision int) {
	f.docs[id] = fakeDoc{revision: revision, title: title, content: &content}
}

func (f *fakeLark) setChildren(spaceID, parent string, pages ...[]*lark.Node) {
	f.children[spaceID+"/"+parent] = pages
}

// serve starts the fake and returns its base URL.
func (f *fakeLark) serve(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv.URL
}

// start serves the fake and returns a client pointed at it.
func (f *fakeLark) start(t *testing.T, opts ...lark.Option) *lark.Client {
	t.Helper()
	opts = append([]lark.Option{lark.WithBaseURL(f.serve(t))}, opts...)
	return lark.NewClient(fakeAppID, fakeAppSecret, opts...)
}

func (f *fakeLark) counts() (tokenCalls int, metaCalls map[string]int, listRequests []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := make(map[string]int, len(f.metaCalls))
	for k, v := range f.metaCalls {
		m[k] = v
	}
	return f.tokenCalls, m, append([]string(nil), f.listRequests...)
}

func (f *fakeLark) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/open-apis/auth/v3/tenant_access_token/internal" {
		f.serveToken(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+fakeToken {
		writeError(w, http.StatusUnauthorized, 99991663, "Invalid access token")
		return
	}

	q := r.URL.Query()
	switch path := r.URL.Path; {
	case path == "/open-apis/docs/v1/content":
		f.serveContent(w, q.Get("doc_token"))
	case path == "/open-apis/wiki/v2/spaces/get_node":
		node, ok := f.nodes[q.Get("token")]
		if !ok {
			writeError(w, http.StatusBadRequest, 131005, "node not found")
			return
		}
		writeData(w, map[string]any{"node": node})
	case strings.HasPrefix(path, "/open-apis/docx/v1/documents/"):
		f.serveDocument(w, strings.TrimPrefix(path, "/open-apis/docx/v1/documents/"))
	case strings.HasPrefix(path, "/open-apis/wiki/v2/spaces/"):
		rest := strings.TrimPrefix(path, "/open-apis/wiki/v2/spaces/")
		if spaceID, ok := strings.CutSuffix(rest, "/nodes"); ok {
			f.serveNodes(w, spaceID, q.Get("parent_node_token"), q.Get("page_token"), q.Get("page_size"))
			return
		}
		space, ok := f.spaces[rest]
		if !ok {
			writeError(w, http.StatusBadRequest, 131005, "space not found")
			return
		}
		writeData(w, map[string]any{"space": space})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeLark) serveToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AppID     string `json:"app_id"`
		AppSecret string `json:"app_secret"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.AppID != fakeAppID || body.AppSecret != fakeAppSecret {
		writeJSON(w, http.StatusOK, map[string]any{"code": 10014, "msg": "app secret invalid"})
		return
	}
	f.tokenCalls++
	writeJSON(w, http.StatusOK, map[string]any{
		"code":                0,
		"msg":                 "ok",
		"tenant_access_token": fakeToken,
		"expire":              f.expire,
	})
}

func (f *fakeLark) serveDocument(w http.ResponseWriter, id string) {
	f.metaCalls[id]++
	if msg, ok := f.metaErrs[id]; ok {
		writeError(w, http.StatusBadRequest, 1770002, msg)
		return
	}
	doc, ok := f.docs[id]
	if !ok {
		writeError(w, http.StatusNotFound, 1770002, "document not found")
		return
	}
	writeData(w, map[string]any{"document": map[string]any{
		"document_id": id,
		"revision_id": doc.revision,
		"title":       doc.title,
	}})
}

func (f *fakeLark) serveContent(w http.ResponseWriter, id string) {
	if msg, ok := f.contentErrs[id]; ok {
		writeError(w, http.StatusBadRequest, 1770032, msg)
		return
	}
	doc, ok := f.docs[id]
	if !ok {
		writeError(w, http.StatusNotFound, 1770002, "document not found")
		return
	}
	writeData(w, map[string]any{"content": doc.content})
}

func (f *fakeLark) serveNodes(w http.ResponseWriter, spaceID, parent, pageToken, pageSize string) {
	f.listRequests = append(f.listRequests, fmt.Sprintf("%s/%s@%s size=%s", spaceID, parent, pageToken, pageSize))

	if msg, ok := f.listErrs[spaceID+"/"+parent]; ok {
		writeError(w, http.StatusBadRequest, 131006, msg)
		return
	}

	pages := f.children[spaceID+"/"+parent]
	idx := 0
	if pageToken != "" {
		idx, _ = strconv.Atoi(strings.TrimPrefix(pageToken, "p"))
	}
	if idx >= len(pages) {
		writeData(w, map[string]any{"items": []any{}, "has_more": false})
		return
	}

	data := map[string]any{"items": pages[idx], "has_more": idx < len(pages)-1}
	if idx < len(pages)-1 {
		data["page_token"] = "p" + strconv.Itoa(idx+1)
	}
	writeData(w, data)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"code": 0, "msg": "success", "data": data})
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	writeJSON(w, status, map[string]any{"code": code, "msg": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
