// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package wizard

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/facilia/facilia/pkg/uuidv7"
)

// Attachment is one image held by a draft before submission.
//
// The bytes are spooled to a gateway temp file the moment they arrive; the
// attachment id doubles as the preview token the client uses to render a
// thumbnail. The temp file is released exactly once, whichever comes first:
// removal by the user, draft discard, successful submission, or the idle
// sweep. Release is idempotent so those paths never race into a double
// delete.
type Attachment struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64

	path        string
	releaseOnce sync.Once
	released    atomic.Bool
}

// NewAttachment spools the reader into a temp file and returns its handle.
func NewAttachment(reader io.Reader, filename, contentType string) (*Attachment, error) {
	file, err := os.CreateTemp("", "facilia-wizard-*")
	if err != nil {
		return nil, fmt.Errorf("wizard: create spool file: %w", err)
	}

	size, err := io.Copy(file, reader)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("wizard: spool attachment: %w", err)
	}

	return &Attachment{
		ID:          uuidv7.Must(),
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		path:        file.Name(),
	}, nil
}

// Open returns a reader over the spooled bytes. The caller must close it.
func (attachment *Attachment) Open() (*os.File, error) {
	if attachment.released.Load() {
		return nil, fmt.Errorf("wizard: attachment %s already released", attachment.ID)
	}
	return os.Open(attachment.path)
}

// Release deletes the spooled temp file. Safe to call more than once; only
// the first call does anything.
func (attachment *Attachment) Release() {
	attachment.releaseOnce.Do(func() {
		attachment.released.Store(true)
		_ = os.Remove(attachment.path)
	})
}

// Released reports whether the temp file has been deleted.
func (attachment *Attachment) Released() bool {
	return attachment.released.Load()
}
