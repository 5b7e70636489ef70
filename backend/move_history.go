package main

type HistoryEntry struct {
	Move      Move
	Player    PlayerColor
	ElapsedMs float64
	IsAi      bool
	Depth     int
	// Features is the position seen by the mover, recorded for the
	// trainer before the move was applied.
	Features []float64
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}
