package documentapimodels

import (
	"time"

	"cpm-backend/models"
	apimodels "cpm-backend/models/api"
	"cpm-backend/models/api/apierrors"
	dbmodels "cpm-backend/models/db"
)

type DocumentUploadData struct {
	Name         string            `json:"name"`
	ProjectID    string            `json:"project_id"`
	RevisionCode string            `json:"revision_code"`
	Status       string            `json:"status"` // target container status, defaults to WORK_IN_PROGRESS
	Metadata     dbmodels.Metadata `json:"metadata"`
}

func (v DocumentUploadData) Validate() error {
	if v.Name == "" {
		return apierrors.Validation("name is required")
	}
	if v.ProjectID == "" {
		return apierrors.Validation("project_id is required")
	}
	if _, err := models.ParseContainerStatus(v.Status); err != nil {
		return apierrors.Validation(err.Error())
	}
	return nil
}

type ContainerMoveData struct {
	ContainerID  string `json:"container_id"`
	RevisionCode string `json:"revision_code"`
	Comment      string `json:"comment"`
}

func (v ContainerMoveData) Validate() error {
	if v.ContainerID == "" {
		return apierrors.Validation("container_id is required")
	}
	return nil
}

type NewVersionData struct {
	RevisionCode string `json:"revision_code"`
	Comment      string `json:"comment"`
}

type DocumentFilter struct {
	apimodels.Pagination
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	Search    string `json:"search"`

	// MemberProjectIDs restricts the result to the caller's projects,
	// set server-side for non-admin listings without a project filter.
	MemberProjectIDs []string `json:"-"`
}

func (v DocumentFilter) Validate() error {
	if v.Status != "" {
		if _, err := models.ParseContainerStatus(v.Status); err != nil {
			return apierrors.Validation(err.Error())
		}
	}
	return nil
}

type DocumentView struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	OriginalName string                 `json:"original_name"`
	Status       models.ContainerStatus `json:"status"`
	Version      int                    `json:"version"`
	RevisionCode string                 `json:"revision_code,omitempty"`
	Metadata     dbmodels.Metadata      `json:"metadata,omitempty"`
	ContainerID  string                 `json:"container_id"`
	ProjectID    string                 `json:"project_id"`
	FileID       string                 `json:"file_id,omitempty"`
	UploadedByID string                 `json:"uploaded_by_id,omitempty"`
	UploadedBy   string                 `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func DocumentConvert(rec dbmodels.Document) DocumentView {
	view := DocumentView{
		ID:           rec.ID,
		Name:         rec.Name,
		OriginalName: rec.OriginalName,
		Status:       rec.Status,
		Version:      rec.Version,
		RevisionCode: rec.RevisionCode,
		Metadata:     rec.Metadata,
		ContainerID:  rec.ContainerID,
		ProjectID:    rec.ProjectID,
		FileID:       rec.FileID,
		UploadedByID: rec.UploadedByID,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.UploadedBy != nil {
		view.UploadedBy = rec.UploadedBy.GetFullName()
	}
	return view
}

type DocumentHistoryView struct {
	ID        string                 `json:"id"`
	Action    models.DocumentAction  `json:"action"`
	Status    models.ContainerStatus `json:"status"`
	Version   int                    `json:"version"`
	FileID    string                 `json:"file_id,omitempty"`
	ActorID   string                 `json:"actor_id"`
	ActorName string                 `json:"actor_name,omitempty"`
	Comment   string                 `json:"comment,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func DocumentHistoryConvert(rec dbmodels.DocumentHistory) DocumentHistoryView {
	view := DocumentHistoryView{
		ID:        rec.ID,
		Action:    rec.Action,
		Status:    rec.Status,
		Version:   rec.Version,
		FileID:    rec.FileID,
		ActorID:   rec.ActorID,
		Comment:   rec.Comment,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Actor != nil {
		view.ActorName = rec.Actor.GetFullName()
	}
	return view
}

// ISODocumentView is the flattened listing used by the ISO export screen.
type ISODocumentView struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Status       models.ContainerStatus `json:"status"`
	StatusHuman  string                 `json:"status_human"`
	Version      int                    `json:"version"`
	RevisionCode string                 `json:"revision_code,omitempty"`
	Metadata     dbmodels.Metadata      `json:"metadata,omitempty"`
	ProjectID    string                 `json:"project_id"`
}

func ISODocumentConvert(rec dbmodels.Document) ISODocumentView {
	return ISODocumentView{
		ID:           rec.ID,
		Name:         rec.Name,
		Status:       rec.Status,
		StatusHuman:  rec.Status.ToHuman(),
		Version:      rec.Version,
		RevisionCode: rec.RevisionCode,
		Metadata:     rec.Metadata,
		ProjectID:    rec.ProjectID,
	}
}
