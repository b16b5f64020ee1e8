package normalize

// conflictColumns maps destination table -> the column used to detect
// "this row already exists" during upsert. Read-only, process-wide.
var conflictColumns = map[string]string{
	"cash_sales":                 "internal_id",
	"credit_memos":               "internal_id",
	"customers":                  "customer_internal_id",
	"invoices":                   "internal_id",
	"invoices_detailed":          "pkey",
	"item_fulfillments":          "internal_id",
	"item_fulfillments_detailed": "pkey",
	"partners":                   "partner_internal_id",
	"sales_orders":               "internal_id",
	"sales_orders_detailed":      "pkey",
	"forecast":                   "pkey",
}

const defaultConflictColumn = "id"

// ResolveConflictColumn returns the conflict column for table, defaulting
// to "id" for unknown tables. Stable across calls.
func ResolveConflictColumn(table string) string {
	if col, ok := conflictColumns[table]; ok {
		return col
	}
	return defaultConflictColumn
}
