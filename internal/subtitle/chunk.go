package subtitle

// Split folds cues into chunks bounded by charBudget, measured against the
// serialized prompt text. Splits happen only at cue boundaries, so a single
// cue larger than the budget still forms its own chunk. Every cue lands in
// exactly one chunk, in order.
func Split(cues []Cue, charBudget int) []Chunk {
	if len(cues) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []Cue
	size := 0

	for _, cue := range cues {
		lineLen := len(cueLine(cue))
		if size+lineLen > charBudget && len(current) > 0 {
			chunks = append(chunks, Chunk{Cues: current})
			current = nil
			size = 0
		}
		current = append(current, cue)
		size += lineLen
	}
	if len(current) > 0 {
		chunks = append(chunks, Chunk{Cues: current})
	}

	return chunks
}
