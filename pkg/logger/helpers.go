package logger

// LogQuery logs the shape of an outgoing catalog query
func LogQuery(l Logger, mission string, cameras []string, perPage int, page *int) {
	fields := map[string]interface{}{
		"mission":  mission,
		"cameras":  cameras,
		"per_page": perPage,
	}
	if page != nil {
		fields["page"] = *page
	} else {
		fields["page"] = "all"
	}
	l.DebugWithFields("querying remote catalog", fields)
}

// LogDownload logs the outcome of one image
func LogDownload(l Logger, imageID, filename string, skipped bool, err error) {
	entry := l.WithFields(map[string]interface{}{
		"image_id": imageID,
		"file":     filename,
	})

	switch {
	case err != nil:
		entry.WithError(err).Error("download failed")
	case skipped:
		entry.Debug("already downloaded, skipping")
	default:
		entry.Info("downloaded")
	}
}

// LogFetchSummary logs the totals of one fetch run
func LogFetchSummary(l Logger, total, downloaded, skipped, failed int) {
	l.InfoWithFields("fetch finished", map[string]interface{}{
		"total":      total,
		"downloaded": downloaded,
		"skipped":    skipped,
		"failed":     failed,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (n nopLogger) Debug(string)                                   {}
func (n nopLogger) Info(string)                                    {}
func (n nopLogger) Warn(string)                                    {}
func (n nopLogger) Error(string)                                   {}
func (n nopLogger) WithField(string, interface{}) Logger           { return n }
func (n nopLogger) WithFields(map[string]interface{}) Logger       { return n }
func (n nopLogger) WithError(error) Logger                         { return n }
func (n nopLogger) DebugWithFields(string, map[string]interface{}) {}
func (n nopLogger) InfoWithFields(string, map[string]interface{})  {}
func (n nopLogger) WarnWithFields(string, map[string]interface{})  {}
func (n nopLogger) ErrorWithFields(string, map[string]interface{}) {}
