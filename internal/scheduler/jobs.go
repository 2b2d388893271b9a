package scheduler

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

// Job types handled by the lifecycle worker. The values double as stable
// identifiers in audit records and job stores.
const (
	JobTypeContentPublish interfaces.JobType = "lifecycle.content.publish"
	JobTypeContentArchive interfaces.JobType = "lifecycle.content.archive"
)

// ContentPublishJobKey names the single scheduled-publish slot for a content
// item. Re-approving with a new date replaces the previous job.
func ContentPublishJobKey(id uuid.UUID) string {
	return "content:" + id.String() + ":publish"
}

// ContentArchiveJobKey names the single scheduled-archive slot for a content item.
func ContentArchiveJobKey(id uuid.UUID) string {
	return "content:" + id.String() + ":archive"
}
