package driven

// FileWriter writes output documents. Paths are relative to the
// export root; the writer decides how they map onto storage.
type FileWriter interface {
	// Write stores content under path, replacing any previous content.
	Write(path string, content []byte) error
}
