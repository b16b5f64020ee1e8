package normalize

// KeyStrategy describes how a descriptor guarantees an identifier usable
// as the table's conflict column.
type KeyStrategy int

const (
	// KeySource trusts the source to supply the identifier column.
	KeySource KeyStrategy = iota
	// KeySequential falls back to rowIndex+1 when the identifier is
	// missing. Idempotent only while source row ordering is stable across
	// runs; inherited behavior, kept deliberately (see DESIGN.md).
	KeySequential
	// KeyComposite synthesizes pkey as "{parentID}_{lineID}" for
	// line-item tables, each component falling back to rowIndex+1.
	KeyComposite
)

// FieldRule renames one source column and coerces its value.
type FieldRule struct {
	Source string
	Dest   string
	Coerce CoerceKind
}

// Descriptor drives normalization for one destination table.
type Descriptor struct {
	Fields    []FieldRule
	Key       KeyStrategy
	IDField   string // dest column holding the (parent) identifier
	LineField string // dest column holding the line identifier (KeyComposite)
	Generic   bool   // heuristic descriptor for unknown tables
}

// registry maps destination table -> normalization descriptor. Unknown
// tables resolve to genericDescriptor, keeping dispatch a single lookup.
var registry = map[string]Descriptor{
	"cash_sales": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Amount", "amount", CoerceFloat},
			{"Status", "status", CoerceString},
			{"Currency", "currency", CoerceString},
			{"Memo", "memo", CoerceString},
		},
		Key:     KeySource,
		IDField: "internal_id",
	},
	"credit_memos": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Amount", "amount", CoerceFloat},
			{"Amount Remaining", "amount_remaining", CoerceFloat},
			{"Status", "status", CoerceString},
			{"Memo", "memo", CoerceString},
		},
		Key:     KeySource,
		IDField: "internal_id",
	},
	"customers": {
		Fields: []FieldRule{
			{"Internal ID", "customer_internal_id", CoerceInt},
			{"Name", "name", CoerceString},
			{"Email", "email", CoerceString},
			{"Phone", "phone", CoerceString},
			{"Category", "category", CoerceString},
			{"Sales Rep", "sales_rep", CoerceString},
			{"Date Created", "date_created", CoerceDate},
			{"Balance", "balance", CoerceFloat},
			{"Credit Limit", "credit_limit", CoerceFloat},
		},
		Key:     KeySequential,
		IDField: "customer_internal_id",
	},
	"invoices": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Due Date", "due_date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Amount", "amount", CoerceFloat},
			{"Amount Remaining", "amount_remaining", CoerceFloat},
			{"Status", "status", CoerceString},
			{"Terms", "terms", CoerceString},
		},
		Key:     KeySource,
		IDField: "internal_id",
	},
	"invoices_detailed": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Line ID", "line_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Item", "item", CoerceString},
			{"Quantity", "quantity", CoerceFloat},
			{"Rate", "rate", CoerceFloat},
			{"Amount", "amount", CoerceFloat},
		},
		Key:       KeyComposite,
		IDField:   "internal_id",
		LineField: "line_id",
	},
	"item_fulfillments": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Status", "status", CoerceString},
			{"Created From", "created_from", CoerceString},
			{"Ship Method", "ship_method", CoerceString},
		},
		Key:     KeySource,
		IDField: "internal_id",
	},
	"item_fulfillments_detailed": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Line ID", "line_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Item", "item", CoerceString},
			{"Quantity", "quantity", CoerceFloat},
			{"Location", "location", CoerceString},
		},
		Key:       KeyComposite,
		IDField:   "internal_id",
		LineField: "line_id",
	},
	"partners": {
		Fields: []FieldRule{
			{"Internal ID", "partner_internal_id", CoerceInt},
			{"Name", "name", CoerceString},
			{"Partner Code", "partner_code", CoerceString},
			{"Email", "email", CoerceString},
			{"Category", "category", CoerceString},
			{"Date Created", "date_created", CoerceDate},
		},
		Key:     KeySequential,
		IDField: "partner_internal_id",
	},
	"sales_orders": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Amount", "amount", CoerceFloat},
			{"Status", "status", CoerceString},
			{"Ship Date", "ship_date", CoerceDate},
		},
		Key:     KeySource,
		IDField: "internal_id",
	},
	"sales_orders_detailed": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Line ID", "line_id", CoerceInt},
			{"Document Number", "document_number", CoerceString},
			{"Date", "date", CoerceDate},
			{"Customer", "customer", CoerceString},
			{"Item", "item", CoerceString},
			{"Quantity", "quantity", CoerceFloat},
			{"Rate", "rate", CoerceFloat},
			{"Amount", "amount", CoerceFloat},
		},
		Key:       KeyComposite,
		IDField:   "internal_id",
		LineField: "line_id",
	},
	"forecast": {
		Fields: []FieldRule{
			{"Internal ID", "internal_id", CoerceInt},
			{"Line ID", "line_id", CoerceInt},
			{"Customer", "customer", CoerceString},
			{"Item", "item", CoerceString},
			{"Period", "period", CoerceDate},
			{"Amount", "amount", CoerceFloat},
			{"Probability", "probability", CoerceFloat},
		},
		Key:       KeyComposite,
		IDField:   "internal_id",
		LineField: "line_id",
	},
}

var genericDescriptor = Descriptor{Generic: true, Key: KeySequential, IDField: "id"}

// Lookup returns the descriptor for table, falling back to the generic
// heuristic descriptor for unknown tables.
func Lookup(table string) Descriptor {
	if desc, ok := registry[table]; ok {
		return desc
	}
	return genericDescriptor
}
