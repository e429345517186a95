// Package storage manages the output directory of a fetch.
//
// Images are written atomically through a temporary file and rename, so an
// interrupted download never leaves a partial image that a later
// "only new" run would mistake for a finished one. Each image may get a
// "<name>-metadata.json" sidecar holding its canonical record.
//
// Usage:
//
//	manager, err := storage.NewManager(outputDir)
//	if err != nil {
//	    return err
//	}
//	if !manager.IsDownloaded(rec.ImageFilename()) {
//	    path, err := manager.SaveImage(bytes.NewReader(data), rec.ImageFilename())
//	    ...
//	}
package storage
