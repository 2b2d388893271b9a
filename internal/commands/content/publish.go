package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-lifecycle/internal/commands"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

const publishContentMessageType = "lifecycle.content.publish"

// PublishContentCommand requests publication of approved content, typically
// dispatched by the scheduler worker when a scheduled publish date is due.
type PublishContentCommand struct {
	ContentID   uuid.UUID `json:"content_id"`
	PublisherID uuid.UUID `json:"publisher_id"`
	Notes       string    `json:"notes,omitempty"`
}

// Type implements command.Message.
func (PublishContentCommand) Type() string { return publishContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("lifecycle.content.publish.content_id_required", "content_id is required")
	}
	if m.PublisherID == uuid.Nil {
		errs["publisher_id"] = validation.NewError("lifecycle.content.publish.publisher_id_required", "publisher_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishContentHandler publishes approved content via the lifecycle service
// using the shared command handler foundation.
type PublishContentHandler struct {
	inner *commands.Handler[PublishContentCommand]
}

// NewPublishContentHandler constructs a handler wired to the provided lifecycle service.
func NewPublishContentHandler(service lifecycle.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishContentCommand]) *PublishContentHandler {
	exec := func(ctx context.Context, msg PublishContentCommand) error {
		_, err := service.PublishContent(ctx, lifecycle.PublishContentRequest{
			ContentID:   msg.ContentID,
			PublisherID: msg.PublisherID,
			Notes:       msg.Notes,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishContentCommand]{
		commands.WithLogger[PublishContentCommand](logger),
		commands.WithOperation[PublishContentCommand]("content.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishContentHandler{
		inner: commands.NewHandler[PublishContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishContentCommand].Execute.
func (h *PublishContentHandler) Execute(ctx context.Context, msg PublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
