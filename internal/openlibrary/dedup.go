package openlibrary

// DeduplicateRecords keeps the first record for each DedupKey, preserving order.
func DeduplicateRecords(records []BookRecord) []BookRecord {
	seen := make(map[string]struct{}, len(records))
	deduped := make([]BookRecord, 0, len(records))

	for _, record := range records {
		key := record.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, record)
	}

	return deduped
}
