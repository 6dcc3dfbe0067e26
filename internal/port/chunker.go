package port

// Chunker splits publication text into overlapping windows.
type Chunker interface {
	Split(text string) []string
}
