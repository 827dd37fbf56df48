package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeSIAPI is an in-process stand-in for the SI workspace API. Component
// listings return bare ids so clients have to expand them.
type fakeSIAPI struct {
	mu         sync.Mutex
	workspace  string
	schemas    []map[string]any
	components []map[string]any
	posts      int
}

func newFakeSIAPI(t *testing.T, workspace string) (*fakeSIAPI, string) {
	t.Helper()
	api := &fakeSIAPI{
		workspace: workspace,
		schemas: []map[string]any{
			{"schemaId": "s-region", "schemaName": "Region", "installed": true},
			{"schemaId": "s-vpc", "schemaName": "AWS::EC2::VPC", "installed": true},
			{"schemaId": "s-subnet", "schemaName": "AWS::EC2::Subnet", "installed": true},
			{"schemaId": "s-bucket", "schemaName": "AWS::S3::Bucket", "installed": true},
		},
	}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, server.URL
}

func (f *fakeSIAPI) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts
}

func (f *fakeSIAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := "/v1/w/" + f.workspace + "/change-sets"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "":
		respond(w, http.StatusOK, map[string]any{"changeSets": []any{
			map[string]any{"id": "cs-head", "name": "HEAD", "status": "Open", "isHead": true},
		}})
	case len(parts) == 2 && parts[1] == "schema":
		respond(w, http.StatusOK, map[string]any{"schemas": f.schemas, "nextCursor": nil})
	case len(parts) == 2 && parts[1] == "components" && r.Method == http.MethodPost:
		f.create(w, r)
	case len(parts) == 2 && parts[1] == "components":
		ids := make([]string, 0, len(f.components))
		for _, component := range f.components {
			ids = append(ids, component["id"].(string))
		}
		respond(w, http.StatusOK, map[string]any{"components": ids, "nextCursor": nil})
	case len(parts) == 3 && parts[1] == "components":
		for _, component := range f.components {
			if component["id"] == parts[2] {
				respond(w, http.StatusOK, map[string]any{"component": component})
				return
			}
		}
		respond(w, http.StatusNotFound, map[string]any{"message": "component not found"})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSIAPI) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string         `json:"name"`
		SchemaName string         `json:"schemaName"`
		Attributes map[string]any `json:"attributes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	schemaID := ""
	for _, schema := range f.schemas {
		if schema["schemaName"] == body.SchemaName {
			schemaID = schema["schemaId"].(string)
		}
	}
	if schemaID == "" {
		respond(w, http.StatusNotFound, map[string]any{"message": "unknown schema"})
		return
	}
	f.posts++
	component := map[string]any{
		"id":         fmt.Sprintf("cmp-%08d", f.posts),
		"name":       body.Name,
		"schemaId":   schemaID,
		"attributes": body.Attributes,
	}
	f.components = append(f.components, component)
	respond(w, http.StatusOK, map[string]any{"component": component})
}

func respond(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
