package oro

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mutation records one create or update request received by the fake server.
type mutation struct {
	method string
	path   string
	body   map[string]any
}

// productServer fakes the admin products API: a canned lookup response plus
// a recorder for any mutating call.
type productServer struct {
	*httptest.Server

	lookupStatus int
	lookupBody   string
	mutateStatus int
	mutateBody   string

	lookups   int
	mutations []mutation
}

func newProductServer(t *testing.T) *productServer {
	t.Helper()

	ps := &productServer{
		lookupStatus: http.StatusOK,
		lookupBody:   `{"data":[]}`,
		mutateStatus: http.StatusCreated,
		mutateBody:   `{"data":{"id":"42","attributes":{"sku":"PROD001"}}}`,
	}

	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok_abc", r.Header.Get("Authorization"))
		assert.Equal(t, contentTypeJSONAPI, r.Header.Get("Accept"))

		switch r.Method {
		case http.MethodGet:
			ps.lookups++
			w.WriteHeader(ps.lookupStatus)
			io.WriteString(w, ps.lookupBody)
		case http.MethodPost, http.MethodPatch:
			assert.Equal(t, contentTypeJSONAPI, r.Header.Get("Content-Type"))
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			ps.mutations = append(ps.mutations, mutation{method: r.Method, path: r.URL.Path, body: body})
			w.WriteHeader(ps.mutateStatus)
			io.WriteString(w, ps.mutateBody)
		default:
			t.Errorf("unexpected method %s", r.Method)
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(ps.Server.Close)

	return ps
}

func (ps *productServer) client(t *testing.T) *Client {
	t.Helper()
	return NewClient(testConfig(ps.URL), testLogger(), false)
}

func data(m map[string]any) map[string]any {
	d, _ := m["data"].(map[string]any)
	return d
}

func included(m map[string]any, typ string) map[string]any {
	list, _ := m["included"].([]any)
	for _, item := range list {
		block, _ := item.(map[string]any)
		if block["type"] == typ {
			return block
		}
	}
	return nil
}

var testToken = &Token{Value: "tok_abc"}

func TestUpsert_CreatesWhenAbsent(t *testing.T) {
	ps := newProductServer(t)

	result, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, result.Action)
	assert.Equal(t, "42", result.ID)
	assert.Equal(t, "PROD001", result.SKU)

	assert.Equal(t, 1, ps.lookups)
	require.Len(t, ps.mutations, 1)

	m := ps.mutations[0]
	assert.Equal(t, http.MethodPost, m.method)
	assert.Equal(t, "/admin/api/products", m.path)

	d := data(m.body)
	attrs := d["attributes"].(map[string]any)
	assert.Equal(t, "PROD001", attrs["sku"])
	assert.Equal(t, "enabled", attrs["status"])
	assert.Equal(t, "simple", attrs["productType"])

	rels := d["relationships"].(map[string]any)
	invStatus := rels["inventory_status"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "in_stock", invStatus["id"], "create applies the default inventory status")

	names := included(m.body, "productnames")
	require.NotNil(t, names)
	assert.Equal(t, "Test Product", names["attributes"].(map[string]any)["string"])

	precision := included(m.body, "productunitprecisions")
	require.NotNil(t, precision, "create carries the unit precision block")
	unit := precision["relationships"].(map[string]any)["unit"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "item", unit["id"], "create applies the default unit")
}

func TestUpsert_CreateWithExplicitFields(t *testing.T) {
	ps := newProductServer(t)

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:             "PROD002",
		Name:            "Boxed Product",
		Unit:            "box",
		InventoryStatus: "out_of_stock",
	})
	require.NoError(t, err)
	require.Len(t, ps.mutations, 1)

	m := ps.mutations[0]
	rels := data(m.body)["relationships"].(map[string]any)
	invStatus := rels["inventory_status"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "out_of_stock", invStatus["id"])

	precision := included(m.body, "productunitprecisions")
	require.NotNil(t, precision)
	unit := precision["relationships"].(map[string]any)["unit"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "box", unit["id"])
}

func TestUpsert_UpdatesWhenPresent(t *testing.T) {
	ps := newProductServer(t)
	ps.lookupBody = `{"data":[{"id":"7"}]}`
	ps.mutateStatus = http.StatusOK
	ps.mutateBody = `{"data":{"id":"7","attributes":{"sku":"PROD001"}}}`

	result, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Updated Name",
	})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, result.Action)
	assert.Equal(t, "7", result.ID)

	require.Len(t, ps.mutations, 1)
	m := ps.mutations[0]
	assert.Equal(t, http.MethodPatch, m.method)
	assert.Equal(t, "/admin/api/products/7", m.path)

	d := data(m.body)
	assert.Equal(t, "7", d["id"])

	// Partial update: nothing beyond the supplied name may appear.
	_, hasAttrs := d["attributes"]
	assert.False(t, hasAttrs, "update must not resend product attributes")

	rels := d["relationships"].(map[string]any)
	_, hasInvStatus := rels["inventory_status"]
	assert.False(t, hasInvStatus, "unsupplied inventory status must not be sent")
	_, hasPrecisions := rels["unitPrecisions"]
	assert.False(t, hasPrecisions, "unit precisions are never patched")

	names := included(m.body, "productnames")
	require.NotNil(t, names)
	assert.Equal(t, "Updated Name", names["attributes"].(map[string]any)["string"])
	assert.Nil(t, included(m.body, "productunitprecisions"))
}

func TestUpsert_UpdateWithInventoryStatus(t *testing.T) {
	ps := newProductServer(t)
	ps.lookupBody = `{"data":[{"id":"7"}]}`
	ps.mutateStatus = http.StatusOK
	ps.mutateBody = `{"data":{"id":"7"}}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:             "PROD001",
		Name:            "Updated Name",
		InventoryStatus: "out_of_stock",
	})
	require.NoError(t, err)
	require.Len(t, ps.mutations, 1)

	rels := data(ps.mutations[0].body)["relationships"].(map[string]any)
	invStatus := rels["inventory_status"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "out_of_stock", invStatus["id"])
}

func TestUpsert_AmbiguousSKU(t *testing.T) {
	ps := newProductServer(t)
	ps.lookupBody = `{"data":[{"id":"7"},{"id":"8"}]}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})

	var ambErr *AmbiguousSKUError
	require.ErrorAs(t, err, &ambErr)
	assert.Equal(t, "PROD001", ambErr.SKU)
	assert.Equal(t, 2, ambErr.Count)
	assert.Empty(t, ps.mutations, "ambiguous lookup must not trigger a mutating call")
}

func TestUpsert_LookupServerError(t *testing.T) {
	ps := newProductServer(t)
	ps.lookupStatus = http.StatusInternalServerError
	ps.lookupBody = `{"errors":[{"status":"500"}]}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, http.StatusInternalServerError, lookupErr.Status)
	assert.Empty(t, ps.mutations, "failed lookup must not trigger a mutating call")
}

func TestUpsert_LookupPaginated(t *testing.T) {
	ps := newProductServer(t)
	ps.lookupBody = `{"data":[{"id":"7"}],"links":{"next":"/admin/api/products?page=2"}}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Contains(t, lookupErr.Error(), "paginated")
	assert.Empty(t, ps.mutations)
}

func TestUpsert_CreateFailure(t *testing.T) {
	ps := newProductServer(t)
	ps.mutateStatus = http.StatusBadRequest
	ps.mutateBody = `{"errors":[{"detail":"sku is invalid"}]}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})

	var upsertErr *UpsertError
	require.ErrorAs(t, err, &upsertErr)
	assert.Equal(t, "create", upsertErr.Op)
	assert.Equal(t, http.StatusBadRequest, upsertErr.Status)
	assert.Contains(t, upsertErr.Body, "sku is invalid")
	require.Len(t, ps.mutations, 1, "a failed create is still exactly one mutating call")
}

func TestUpsert_UpdateFailure(t *testing.T) {
	ps := newProductServer(t)
	ps.lookupBody = `{"data":[{"id":"7"}]}`
	ps.mutateStatus = http.StatusConflict
	ps.mutateBody = `{"errors":[{"detail":"conflict"}]}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})

	var upsertErr *UpsertError
	require.ErrorAs(t, err, &upsertErr)
	assert.Equal(t, "update", upsertErr.Op)
	assert.Equal(t, http.StatusConflict, upsertErr.Status)
}

func TestUpsert_CreateResponseMissingID(t *testing.T) {
	ps := newProductServer(t)
	ps.mutateBody = `{"data":{}}`

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})

	var upsertErr *UpsertError
	require.ErrorAs(t, err, &upsertErr)
	assert.Contains(t, upsertErr.Error(), "missing resource id")
}

func TestUpsert_EmptySKU(t *testing.T) {
	ps := newProductServer(t)

	_, err := ps.client(t).Upsert(context.Background(), testToken, Product{Name: "Test Product"})
	require.Error(t, err)
	assert.Equal(t, 0, ps.lookups)
	assert.Empty(t, ps.mutations)
}

func TestUpsert_DryRun(t *testing.T) {
	ps := newProductServer(t)
	client := NewClient(testConfig(ps.URL), testLogger(), true)

	result, err := client.Upsert(context.Background(), testToken, Product{
		SKU:  "PROD001",
		Name: "Test Product",
	})
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, result.Action)
	assert.Equal(t, 0, ps.lookups)
	assert.Empty(t, ps.mutations)
}
