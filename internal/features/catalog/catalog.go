package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"go-datasync/pkg/syncerr"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// paginatedTables are destination tables large enough to require per-page
// normalization and writing instead of whole-result buffering.
var paginatedTables = map[string]bool{
	"invoices_detailed":          true,
	"item_fulfillments_detailed": true,
	"sales_orders_detailed":      true,
	"forecast":                   true,
}

// defaultEntries is the compiled-in catalog, used when no catalog file is
// configured. Order matters: the run processes entries in this order.
var defaultEntries = []MappingEntry{
	{SourceID: "customsearch_ds_cash_sales", DestinationTable: "cash_sales", DisplayName: "Cash Sales", Kind: "transaction", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_credit_memos", DestinationTable: "credit_memos", DisplayName: "Credit Memos", Kind: "transaction", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_customers", DestinationTable: "customers", DisplayName: "Customers", Kind: "entity", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_invoices", DestinationTable: "invoices", DisplayName: "Invoices", Kind: "transaction", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_invoices_det", DestinationTable: "invoices_detailed", DisplayName: "Invoices (Detailed)", Kind: "transaction-lines", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_fulfillments", DestinationTable: "item_fulfillments", DisplayName: "Item Fulfillments", Kind: "transaction", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_fulfill_det", DestinationTable: "item_fulfillments_detailed", DisplayName: "Item Fulfillments (Detailed)", Kind: "transaction-lines", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_partners", DestinationTable: "partners", DisplayName: "Partners", Kind: "entity", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_sales_orders", DestinationTable: "sales_orders", DisplayName: "Sales Orders", Kind: "transaction", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_so_detailed", DestinationTable: "sales_orders_detailed", DisplayName: "Sales Orders (Detailed)", Kind: "transaction-lines", WriteMethod: "upsert"},
	{SourceID: "customsearch_ds_forecast", DestinationTable: "forecast", DisplayName: "Forecast", Kind: "forecast", WriteMethod: "upsert"},
}

// Load reads the catalog from path, or returns the compiled-in default
// catalog when path is empty. Validation failures are fatal.
func Load(path string) (*Catalog, error) {
	cat := &Catalog{Entries: defaultEntries}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		var fromFile Catalog
		if err := json.Unmarshal(raw, &fromFile); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
		cat = &fromFile
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) validate() error {
	if len(c.Entries) == 0 {
		return syncerr.NewValidationError("mappings", "catalog has no entries")
	}
	for i, e := range c.Entries {
		if e.SourceID == "" || e.DestinationTable == "" || e.DisplayName == "" || e.Kind == "" || e.WriteMethod == "" {
			return syncerr.NewValidationError(
				fmt.Sprintf("mappings[%d]", i),
				"source_id, destination_table, display_name, kind and write_method are all required",
			)
		}
		if !tableNameRe.MatchString(e.DestinationTable) {
			return syncerr.NewValidationError(
				fmt.Sprintf("mappings[%d].destination_table", i),
				fmt.Sprintf("invalid table name %q", e.DestinationTable),
			)
		}
	}
	return nil
}

// IsPaginated reports whether table must be synced page by page.
func IsPaginated(table string) bool {
	return paginatedTables[table]
}
