package structdiff

// ScriptStats summarizes the composition of a Script. It's a convenience
// view for callers (logging, metrics); Diff and Apply never consult it.
type ScriptStats struct {
	Replaces        int `json:"replaces,omitempty"`
	ReplaceKeys     int `json:"replaceKeys,omitempty"`
	ReplaceMappings int `json:"replaceMappings,omitempty"`
	Removes         int `json:"removes,omitempty"`
	Truncates       int `json:"truncates,omitempty"`
	Inserts         int `json:"inserts,omitempty"`
	InsertMappings  int `json:"insertMappings,omitempty"`
	Enters          int `json:"enters,omitempty"`
}

// Stat counts how many changes of each kind a Script contains.
func Stat(s Script) ScriptStats {
	var stats ScriptStats
	for _, ch := range s {
		switch ch.Kind {
		case ChangeReplace:
			stats.Replaces++
		case ChangeReplaceKey:
			stats.ReplaceKeys++
		case ChangeReplaceMapping:
			stats.ReplaceMappings++
		case ChangeRemove:
			stats.Removes++
		case ChangeTruncate:
			stats.Truncates++
		case ChangeInsert:
			stats.Inserts++
		case ChangeInsertMapping:
			stats.InsertMappings++
		case ChangeEnterSequence, ChangeEnterMap:
			stats.Enters++
		}
	}
	return stats
}

// Len returns the total number of content-bearing changes, excluding the
// Enter/Exit framing pairs.
func (s ScriptStats) Len() int {
	return s.Replaces + s.ReplaceKeys + s.ReplaceMappings + s.Removes + s.Truncates + s.Inserts + s.InsertMappings
}
