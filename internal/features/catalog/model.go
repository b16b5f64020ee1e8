package catalog

// MappingEntry describes one source-search-to-destination-table sync unit.
type MappingEntry struct {
	SourceID         string `json:"source_id"`
	DestinationTable string `json:"destination_table"`
	DisplayName      string `json:"display_name"`
	Kind             string `json:"kind"`         // classification tag, informational only
	WriteMethod      string `json:"write_method"` // validated, currently unused beyond that
}

// Catalog is the static ordered list of mappings, loaded once per process.
type Catalog struct {
	Entries []MappingEntry `json:"mappings"`
}
