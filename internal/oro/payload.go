package oro

// The admin API speaks JSON:API. Attributes and relationships are built as
// maps because create and update documents carry different subsets of
// fields: a create sends the complete product, an update only what the
// caller supplied.

const (
	productNamesID    = "names-1"
	unitPrecisionID   = "product-unit-precision-id-1"
	defaultOwnerID    = "1"
	defaultOrgID      = "1"
	defaultAttrFamily = "1"
)

type productDocument struct {
	Data     productData      `json:"data"`
	Included []map[string]any `json:"included,omitempty"`
}

type productData struct {
	Type          string         `json:"type"`
	ID            string         `json:"id,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	Relationships map[string]any `json:"relationships,omitempty"`
}

func relationship(typ, id string) map[string]any {
	return map[string]any{
		"data": map[string]any{"type": typ, "id": id},
	}
}

func relationshipList(typ string, ids ...string) map[string]any {
	refs := make([]map[string]any, len(ids))
	for i, id := range ids {
		refs[i] = map[string]any{"type": typ, "id": id}
	}
	return map[string]any{"data": refs}
}

// productNamesBlock is the included localized-name resource the names
// relationship points at.
func productNamesBlock(name string) map[string]any {
	return map[string]any{
		"type": "productnames",
		"id":   productNamesID,
		"attributes": map[string]any{
			"fallback": nil,
			"string":   name,
		},
		"relationships": map[string]any{
			"localization": map[string]any{"data": nil},
		},
	}
}

// unitPrecisionBlock is the included unit-precision resource referenced by
// primaryUnitPrecision and unitPrecisions on create.
func unitPrecisionBlock(unit string) map[string]any {
	return map[string]any{
		"type": "productunitprecisions",
		"id":   unitPrecisionID,
		"attributes": map[string]any{
			"precision":      0,
			"conversionRate": 1,
			"sell":           1,
		},
		"relationships": map[string]any{
			"unit": map[string]any{
				"data": map[string]any{"type": "productunits", "id": unit},
			},
		},
	}
}

// createDocument builds the full product document, filling in the defaults
// for fields that were not supplied.
func createDocument(p Product) productDocument {
	unit := p.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	status := p.InventoryStatus
	if status == "" {
		status = DefaultInventoryStatus
	}

	doc := productDocument{
		Data: productData{
			Type: "products",
			Attributes: map[string]any{
				"sku":         p.SKU,
				"status":      "enabled",
				"productType": "simple",
				"featured":    true,
				"newArrival":  true,
			},
			Relationships: map[string]any{
				"owner":                relationship("businessunits", defaultOwnerID),
				"organization":         relationship("organizations", defaultOrgID),
				"attributeFamily":      relationship("attributefamilies", defaultAttrFamily),
				"names":                relationshipList("productnames", productNamesID),
				"inventory_status":     relationship("prodinventorystatuses", status),
				"primaryUnitPrecision": relationship("productunitprecisions", unitPrecisionID),
				"unitPrecisions":       relationshipList("productunitprecisions", unitPrecisionID),
			},
		},
		Included: []map[string]any{
			productNamesBlock(p.Name),
			unitPrecisionBlock(unit),
		},
	}

	return doc
}

// updateDocument builds a partial document for PATCH. Only supplied fields
// appear; anything omitted keeps its current remote value. Unit precisions
// are never modified through this path.
func updateDocument(id string, p Product) productDocument {
	doc := productDocument{
		Data: productData{
			Type:          "products",
			ID:            id,
			Relationships: map[string]any{},
		},
	}

	if p.Name != "" {
		doc.Data.Relationships["names"] = relationshipList("productnames", productNamesID)
		doc.Included = append(doc.Included, productNamesBlock(p.Name))
	}
	if p.InventoryStatus != "" {
		doc.Data.Relationships["inventory_status"] = relationship("prodinventorystatuses", p.InventoryStatus)
	}

	return doc
}
