// Package file implements the raw file I/O around the airgapsync pipeline.
//
// # Reading
//
// ReadPayload loads a complete regular file, bounded by
// limits.MaxPayloadSize because the whole transfer is buffered in memory:
//
//	payload, err := file.ReadPayload(path)
//	if errors.Is(err, limits.ErrPayloadTooLarge) {
//	    // split the file before sending
//	}
//
// # Writing
//
// WriteAtomic is the only way the receiver writes output. It writes to a
// temporary sibling and renames it into place, so an aborted or failed
// receive never leaves a partially written file:
//
//	err := file.WriteAtomic(file.DefaultOutputName, payload, file.DefaultPerm)
//
// # Path Validation
//
// Output paths with ".." elements are rejected:
//
//	if _, err := file.ValidatePath(path); err != nil {
//	    // err == file.ErrDirectoryTraversal
//	}
//
// # Error Handling
//
//	var (
//	    ErrDirectoryTraversal // path contains a ".." element
//	    ErrIO                 // wraps the underlying *os.PathError
//	    ErrNotRegular         // input is a directory or special file
//	)
package file
