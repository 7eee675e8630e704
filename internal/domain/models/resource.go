// internal/domain/models/resource.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource lifecycle statuses. The casing is part of the stored contract
// (pre-existing documents use these exact values).
const (
	ResourceActive      = "Active"
	ResourceInactive    = "Inactive"
	ResourceSoftDeleted = "SoftDeleted"
	ResourceHardDeleted = "HardDeleted"
	ResourceDeleted     = "Deleted"
)

// Upload types. Each type requires exactly one owning reference:
// group_chat -> GroupID, personal_chat -> ConversationID, project -> ProjectID.
const (
	UploadProject      = "project"
	UploadGroupChat    = "group_chat"
	UploadPersonalChat = "personal_chat"
)

// ResourceMetadata tracks indexing state and the blob locator for a file.
type ResourceMetadata struct {
	Indexed          bool   `bson:"indexed" json:"indexed"`
	HasExtractedText bool   `bson:"has_extracted_text" json:"has_extracted_text"`
	BlobKey          string `bson:"blob_key,omitempty" json:"blob_key,omitempty"`
}

// Resource is an uploaded file tracked by the lifecycle engine.
type Resource struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FileName string             `bson:"file_name" json:"file_name"`
	FilePath string             `bson:"file_path" json:"file_path"`
	FileSize int64              `bson:"file_size" json:"file_size"`
	MIMEType string             `bson:"mime_type" json:"mime_type"`

	UploadType     string              `bson:"upload_type" json:"upload_type"`
	GroupID        *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	ConversationID *primitive.ObjectID `bson:"conversation_id,omitempty" json:"conversation_id,omitempty"`
	ProjectID      *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`

	Uploader Identity `bson:"uploader" json:"uploader"`
	Status   string   `bson:"status" json:"status"`

	UploadedAt     time.Time  `bson:"uploaded_at" json:"uploaded_at"`
	LastAccessedAt *time.Time `bson:"last_accessed_at,omitempty" json:"last_accessed_at,omitempty"`
	SoftDeletedAt  *time.Time `bson:"soft_deleted_at,omitempty" json:"soft_deleted_at,omitempty"`
	HardDeletedAt  *time.Time `bson:"hard_deleted_at,omitempty" json:"hard_deleted_at,omitempty"`

	Metadata ResourceMetadata `bson:"metadata" json:"metadata"`
}

// NewResource builds an Active resource. Exactly one of groupID,
// conversationID, projectID must be set, matching uploadType; a mismatch is
// a programming error surfaced to the caller.
func NewResource(fileName, filePath string, fileSize int64, mimeType, uploadType string, owner primitive.ObjectID, uploader Identity, now time.Time) (Resource, error) {
	r := Resource{
		ID:         primitive.NewObjectID(),
		FileName:   fileName,
		FilePath:   filePath,
		FileSize:   fileSize,
		MIMEType:   mimeType,
		UploadType: uploadType,
		Uploader:   uploader,
		Status:     ResourceActive,
		UploadedAt: now,
	}
	switch uploadType {
	case UploadGroupChat:
		r.GroupID = &owner
	case UploadPersonalChat:
		r.ConversationID = &owner
	case UploadProject:
		r.ProjectID = &owner
	default:
		return Resource{}, fmt.Errorf("unknown upload type %q", uploadType)
	}
	return r, nil
}
