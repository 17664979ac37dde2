// Package export assembles a session's snapshot list into the end-of-interview
// artifact (PDF, with HTML and Markdown renditions) and routes it to a local
// download or the cloud upload sink.
package export

import (
	"context"
	"errors"
	"log/slog"

	"github.com/meetkit/interviewd/session"
)

// Mode selects the export destination. An explicit value, passed as a
// normal argument.
type Mode string

const (
	ModeDownload Mode = "download"
	ModeUpload   Mode = "upload"
)

var (
	// ErrMissingInterviewee is returned by upload-mode exports when the
	// session lacks interviewee name or cloud folder id.
	ErrMissingInterviewee = errors.New("export: interviewee name and cloud folder id required")

	// ErrUnknownMode is returned for a mode other than download/upload.
	ErrUnknownMode = errors.New("export: unknown mode")

	// ErrNoUploadSink is returned by upload-mode exports when the exporter
	// was built without an uploader.
	ErrNoUploadSink = errors.New("export: no upload sink configured")
)

// Notices surfaced to the user when there is nothing to deliver.
const (
	NoticeNothingToSave   = "nothing to save"
	NoticeNothingToUpload = "nothing to upload"
)

// Result is the outcome of one export.
type Result struct {
	Artifact []byte `json:"-"`
	Filename string `json:"filename,omitempty"`
	Pages    int    `json:"pages"`
	Notice   string `json:"notice,omitempty"`

	// MediaPath is set in download mode when buffered recording media was
	// saved locally.
	MediaPath string `json:"media_path,omitempty"`
}

// Exporter drains a session's snapshot list into a document and delivers it.
type Exporter struct {
	logger   *slog.Logger
	mediaDir string
	uploader Uploader
}

// NewExporter creates an Exporter. mediaDir receives locally saved
// recordings; uploader may be nil, in which case upload-mode exports
// return ErrNoUploadSink.
func NewExporter(logger *slog.Logger, mediaDir string, uploader Uploader) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger, mediaDir: mediaDir, uploader: uploader}
}

// Export builds the session document and delivers it according to mode.
//
// Precondition: the session's recorder must not be recording. A running
// recording aborts the whole export with exactly one warning — no pages,
// no save, no upload.
func (e *Exporter) Export(ctx context.Context, sess *session.Session, mode Mode) (*Result, error) {
	rec := sess.Recorder()
	if rec.IsRecordingStarted() {
		e.logger.Warn("export aborted: recording still in progress", "room_id", sess.RoomID)
		return nil, session.ErrStillRecording
	}

	snaps := sess.Snapshots()
	artifact, pages, err := BuildPDF(sess.RoomID, snaps)
	if err != nil {
		return nil, err
	}
	res := &Result{Artifact: artifact, Pages: pages}

	switch mode {
	case ModeDownload:
		if len(snaps) > 0 {
			res.Filename = sess.RoomID + ".pdf"
		} else {
			res.Notice = NoticeNothingToSave
		}
		path, err := rec.Save(e.mediaDir, sess.RoomID+".webm")
		if err != nil {
			// The document was already generated; a media save failure is
			// logged, not fatal, and never retried.
			e.logger.Error("recording save failed", "room_id", sess.RoomID, "error", err)
		} else if path != "" {
			res.MediaPath = path
		}

	case ModeUpload:
		if e.uploader == nil {
			return nil, ErrNoUploadSink
		}
		info := sess.Interviewee()
		if info.Name == "" || info.CloudFolderID == "" {
			return nil, ErrMissingInterviewee
		}
		if len(snaps) > 0 {
			blob := Blob{
				Filename:        sess.RoomID + ".pdf",
				ContentType:     "application/pdf",
				Data:            artifact,
				IntervieweeName: info.Name,
				FolderID:        info.CloudFolderID,
			}
			if err := e.uploader.Upload(ctx, blob); err != nil {
				e.logger.Error("artifact upload failed", "room_id", sess.RoomID, "error", err)
			}
		} else {
			res.Notice = NoticeNothingToUpload
		}
		if rec.HasMedia() {
			blob := Blob{
				Filename:        sess.RoomID + ".webm",
				ContentType:     "video/webm",
				Data:            rec.Media(),
				IntervieweeName: info.Name,
				FolderID:        info.CloudFolderID,
			}
			if err := e.uploader.Upload(ctx, blob); err != nil {
				e.logger.Error("media upload failed", "room_id", sess.RoomID, "error", err)
			}
		}

	default:
		return nil, ErrUnknownMode
	}

	e.logger.Info("export complete",
		"room_id", sess.RoomID,
		"mode", string(mode),
		"snapshots", len(snaps),
		"pages", pages)
	return res, nil
}
