package domain

// ProgressFunc reports normalization progress to the TUI.
// Called once per batch: (1000, 4500), (2000, 4500), ...
type ProgressFunc func(loaded, total int)
