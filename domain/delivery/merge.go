package delivery

// MergeBatch appends a freshly imported batch onto an accumulated record set.
// Records are keyed by ID; colliding IDs have their counters summed and their
// service-code lists concatenated, with percentages recomputed from the
// summed counts. Merging the same batch twice doubles the counts on purpose:
// the caller owns dedup of its inputs, not this function.
func MergeBatch(existing, incoming []Record) []Record {
	merged := make([]Record, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for _, rec := range existing {
		index[rec.ID] = len(merged)
		merged = append(merged, rec)
	}

	for _, rec := range incoming {
		pos, ok := index[rec.ID]
		if !ok {
			index[rec.ID] = len(merged)
			merged = append(merged, rec)
			continue
		}

		prev := merged[pos]
		prev.TotalOrders += rec.TotalOrders
		prev.Routes += rec.Routes
		prev.Delivered += rec.Delivered
		prev.Pending += rec.Pending
		prev.Unsuccessful += rec.Unsuccessful
		prev.ServiceCodes = append(prev.ServiceCodes, rec.ServiceCodes...)
		prev.RecomputePercentages()
		merged[pos] = prev
	}

	return merged
}
