package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-lifecycle/internal/commands"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

const archiveContentMessageType = "lifecycle.content.archive"

// ArchiveContentCommand requests archival of approved or published content.
type ArchiveContentCommand struct {
	ContentID  uuid.UUID `json:"content_id"`
	ArchiverID uuid.UUID `json:"archiver_id"`
	Reason     string    `json:"reason,omitempty"`
}

// Type implements command.Message.
func (ArchiveContentCommand) Type() string { return archiveContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ArchiveContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("lifecycle.content.archive.content_id_required", "content_id is required")
	}
	if m.ArchiverID == uuid.Nil {
		errs["archiver_id"] = validation.NewError("lifecycle.content.archive.archiver_id_required", "archiver_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ArchiveContentHandler archives content via the lifecycle service.
type ArchiveContentHandler struct {
	inner *commands.Handler[ArchiveContentCommand]
}

// NewArchiveContentHandler constructs a handler wired to the provided lifecycle service.
func NewArchiveContentHandler(service lifecycle.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ArchiveContentCommand]) *ArchiveContentHandler {
	exec := func(ctx context.Context, msg ArchiveContentCommand) error {
		_, err := service.ArchiveContent(ctx, lifecycle.ArchiveContentRequest{
			ContentID:  msg.ContentID,
			ArchiverID: msg.ArchiverID,
			Reason:     msg.Reason,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[ArchiveContentCommand]{
		commands.WithLogger[ArchiveContentCommand](logger),
		commands.WithOperation[ArchiveContentCommand]("content.archive"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ArchiveContentHandler{
		inner: commands.NewHandler[ArchiveContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ArchiveContentCommand].Execute.
func (h *ArchiveContentHandler) Execute(ctx context.Context, msg ArchiveContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
