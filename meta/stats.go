package meta

// ColumnStats summarizes one column of one stored block: the minimum and
// maximum non-null value, the null count, and the row count. Stats are
// computed once when the block is flushed and never change afterwards.
//
// A column with RowCount == NullCount holds no non-null values; Min and Max
// are null in that case and HasMinMax reports false.
type ColumnStats struct {
	Min       Value  `json:"min"`
	Max       Value  `json:"max"`
	NullCount uint64 `json:"null_count"`
	RowCount  uint64 `json:"row_count"`
}

// HasMinMax reports whether Min and Max carry usable bounds.
func (s *ColumnStats) HasMinMax() bool {
	return s != nil && !s.Min.IsNull() && !s.Max.IsNull()
}

// AllNull reports whether every row of the column is null.
func (s *ColumnStats) AllNull() bool {
	return s != nil && s.RowCount > 0 && s.NullCount == s.RowCount
}

// BuildColumnStats scans a column vector and produces its statistics.
// Values in one column share a single kind; cells of any other kind are
// rejected upstream by batch validation, so min/max comparisons here always
// have a defined ordering.
func BuildColumnStats(col []Value) *ColumnStats {
	stats := &ColumnStats{
		Min:      Null(),
		Max:      Null(),
		RowCount: uint64(len(col)),
	}
	for _, v := range col {
		if v.IsNull() {
			stats.NullCount++
			continue
		}
		if stats.Min.IsNull() {
			stats.Min = v
			stats.Max = v
			continue
		}
		if c, ok := Compare(v, stats.Min); ok && c < 0 {
			stats.Min = v
		}
		if c, ok := Compare(v, stats.Max); ok && c > 0 {
			stats.Max = v
		}
	}
	return stats
}

// BlockMeta is the catalog entry for one stored chunk of rows: where it
// lives, how many rows it holds, and per-column statistics keyed by column
// name. A column absent from ColStats has no statistics and is treated
// conservatively by pruning.
type BlockMeta struct {
	Location string                  `json:"location"`
	RowCount uint64                  `json:"row_count"`
	ColStats map[string]*ColumnStats `json:"col_stats"`
}
