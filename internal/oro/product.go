package oro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Defaults applied on the create path when the caller did not supply a
// value. Updates never fall back to these; an unsupplied field keeps its
// remote value.
const (
	DefaultUnit            = "item"
	DefaultInventoryStatus = "in_stock"
)

// Product describes one product for an upsert. SKU is the sole identity
// key. Unit and InventoryStatus are empty unless explicitly supplied.
type Product struct {
	SKU             string
	Name            string
	Unit            string
	InventoryStatus string
}

// Action says which mutating call an upsert ended up making.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// UpsertResult reports the outcome of a successful upsert.
type UpsertResult struct {
	Action Action `json:"action"`
	ID     string `json:"id"`
	SKU    string `json:"sku"`
}

type lookupResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type mutationResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			SKU string `json:"sku"`
		} `json:"attributes"`
	} `json:"data"`
}

// Upsert creates the product when no record matches its SKU, otherwise
// updates the matched record with only the supplied fields. Exactly one
// mutating call is made per invocation, and none at all when the lookup
// fails or matches more than one record.
func (c *Client) Upsert(ctx context.Context, token *Token, p Product) (*UpsertResult, error) {
	if strings.TrimSpace(p.SKU) == "" {
		return nil, fmt.Errorf("product sku must not be empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("product name must not be empty")
	}

	id, err := c.findBySKU(ctx, token, p.SKU)
	if err != nil {
		return nil, err
	}

	if id == "" {
		return c.create(ctx, token, p)
	}
	return c.update(ctx, token, id, p)
}

// findBySKU returns the resource ID of the product matching sku, or "" when
// none exists. More than one match is upstream data corruption and is
// refused rather than silently resolved to the first record.
func (c *Client) findBySKU(ctx context.Context, token *Token, sku string) (string, error) {
	q := url.Values{"filter[sku]": {sku}}
	lookupURL := c.cfg.APIURL("/products") + "?" + q.Encode()

	status, body, err := c.doJSONAPI(ctx, token, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", &LookupError{Err: err}
	}
	if c.dryRun {
		return "", nil
	}
	if !is2xx(status) {
		return "", &LookupError{Status: status, Body: string(body)}
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return "", &LookupError{Status: status, Err: fmt.Errorf("decoding lookup response: %w", err)}
	}

	// The sku filter should never span pages; bail out rather than guess
	// which page holds the record.
	if lr.Links.Next != "" {
		return "", &LookupError{Status: status, Err: errors.New("lookup response is paginated")}
	}

	switch len(lr.Data) {
	case 0:
		return "", nil
	case 1:
		return lr.Data[0].ID, nil
	default:
		return "", &AmbiguousSKUError{SKU: sku, Count: len(lr.Data)}
	}
}

func (c *Client) create(ctx context.Context, token *Token, p Product) (*UpsertResult, error) {
	payload, err := json.Marshal(createDocument(p))
	if err != nil {
		return nil, &UpsertError{Op: "create", Err: err}
	}

	status, body, err := c.doJSONAPI(ctx, token, http.MethodPost, c.cfg.APIURL("/products"), payload)
	if err != nil {
		return nil, &UpsertError{Op: "create", Err: err}
	}
	if c.dryRun {
		return &UpsertResult{Action: ActionCreated, SKU: p.SKU}, nil
	}
	if !is2xx(status) {
		return nil, &UpsertError{Op: "create", Status: status, Body: string(body)}
	}

	var mr mutationResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, &UpsertError{Op: "create", Status: status, Err: fmt.Errorf("decoding create response: %w", err)}
	}
	if mr.Data.ID == "" {
		return nil, &UpsertError{Op: "create", Status: status, Body: string(body), Err: errors.New("create response missing resource id")}
	}

	c.logger.Info("product created", "sku", p.SKU, "id", mr.Data.ID)

	return &UpsertResult{Action: ActionCreated, ID: mr.Data.ID, SKU: p.SKU}, nil
}

func (c *Client) update(ctx context.Context, token *Token, id string, p Product) (*UpsertResult, error) {
	if p.Unit != "" {
		// The admin API rejects unit precision changes on PATCH, so the
		// original tooling never sends them; --unit only affects creation.
		c.logger.Warn("unit is ignored when updating an existing product", "sku", p.SKU, "unit", p.Unit)
	}

	payload, err := json.Marshal(updateDocument(id, p))
	if err != nil {
		return nil, &UpsertError{Op: "update", Err: err}
	}

	status, body, err := c.doJSONAPI(ctx, token, http.MethodPatch, c.cfg.APIURL("/products/"+id), payload)
	if err != nil {
		return nil, &UpsertError{Op: "update", Err: err}
	}
	if c.dryRun {
		return &UpsertResult{Action: ActionUpdated, ID: id, SKU: p.SKU}, nil
	}
	if !is2xx(status) {
		return nil, &UpsertError{Op: "update", Status: status, Body: string(body)}
	}

	c.logger.Info("product updated", "sku", p.SKU, "id", id)

	return &UpsertResult{Action: ActionUpdated, ID: id, SKU: p.SKU}, nil
}
