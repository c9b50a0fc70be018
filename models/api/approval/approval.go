package approvalapimodels

import (
	"fmt"
	"time"

	"cpm-backend/models"
	apimodels "cpm-backend/models/api"
	"cpm-backend/models/api/apierrors"
	dbmodels "cpm-backend/models/db"
)

type ApprovalCreateData struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	ProjectID    string `json:"project_id"`
	AssignedToID string `json:"assigned_to_id"`
}

func (v ApprovalCreateData) Validate() error {
	if v.Title == "" {
		return apierrors.Validation("title is required")
	}
	if v.ProjectID == "" {
		return apierrors.Validation("project_id is required")
	}
	if v.AssignedToID == "" {
		return apierrors.Validation("assigned_to_id is required")
	}
	if _, err := models.ParsePriority(v.Priority); err != nil {
		return apierrors.Validation(err.Error())
	}
	return nil
}

type ApprovalEditData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

func (v ApprovalEditData) Validate() error {
	if v.Title == "" {
		return apierrors.Validation("title is required")
	}
	if _, err := models.ParsePriority(v.Priority); err != nil {
		return apierrors.Validation(err.Error())
	}
	return nil
}

// ApprovalTransitionData is the payload of the transition operation.
// Status and stage are case-normalized, absent values default to
// PENDING/DESIGN.
type ApprovalTransitionData struct {
	Status          string `json:"status"`
	Stage           string `json:"stage"`
	Comment         string `json:"comment"`
	RejectionReason string `json:"rejection_reason"`
}

func (v ApprovalTransitionData) Validate() error {
	if _, err := models.ParseApprovalStatus(v.Status); err != nil {
		return apierrors.Validation(err.Error())
	}
	if _, err := models.ParseApprovalStage(v.Stage); err != nil {
		return apierrors.Validation(err.Error())
	}
	return nil
}

type ApprovalCommentData struct {
	Body string `json:"body"`
}

func (v ApprovalCommentData) Validate() error {
	if v.Body == "" {
		return apierrors.Validation("comment body is required")
	}
	return nil
}

type ApprovalFilter struct {
	apimodels.Pagination
	ProjectID    string `json:"project_id"`
	Status       string `json:"status"`
	Stage        string `json:"stage"`
	AssignedToID string `json:"assigned_to_id"`
	Search       string `json:"search"` // matches title/description

	// MemberProjectIDs restricts the result to the caller's projects,
	// set server-side for non-admin listings without a project filter.
	MemberProjectIDs []string `json:"-"`
}

func (v ApprovalFilter) Validate() error {
	if v.Status != "" {
		if _, err := models.ParseApprovalStatus(v.Status); err != nil {
			return apierrors.Validation(err.Error())
		}
	}
	if v.Stage != "" {
		if _, err := models.ParseApprovalStage(v.Stage); err != nil {
			return apierrors.Validation(err.Error())
		}
	}
	return nil
}

type ApprovalView struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	Priority        models.Priority `json:"priority"`
	Status          string          `json:"status"`
	Stage           string          `json:"stage"`
	StageDisplay    string          `json:"stage_display"`
	CurrentVersion  int             `json:"current_version"`
	SendDate        time.Time       `json:"send_date"`
	SignDate        *time.Time      `json:"sign_date,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ProjectID       string          `json:"project_id"`
	ProjectName     string          `json:"project_name,omitempty"`
	AssignedToID    string          `json:"assigned_to_id"`
	AssignedToName  string          `json:"assigned_to_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StageDisplay renders the human form of the review round,
// e.g. "design lần 2" for the second revision at the design stage.
func StageDisplay(stage models.ApprovalStage, version int) string {
	return fmt.Sprintf("%s lần %d", stage.ToLower(), version)
}

func ApprovalConvert(rec dbmodels.ApprovalDocument) ApprovalView {
	view := ApprovalView{
		ID:              rec.ID,
		Title:           rec.Title,
		Description:     rec.Description,
		Category:        rec.Category,
		Priority:        rec.Priority,
		Status:          rec.Status.ToLower(),
		Stage:           rec.Stage.ToLower(),
		StageDisplay:    StageDisplay(rec.Stage, rec.CurrentVersion),
		CurrentVersion:  rec.CurrentVersion,
		SendDate:        rec.SendDate,
		SignDate:        rec.SignDate,
		RejectionReason: rec.RejectionReason,
		ProjectID:       rec.ProjectID,
		AssignedToID:    rec.AssignedToID,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if rec.Project != nil {
		view.ProjectName = rec.Project.Name
	}
	if rec.AssignedTo != nil {
		view.AssignedToName = rec.AssignedTo.GetFullName()
	}
	return view
}

type ApprovalHistoryView struct {
	ID          string                `json:"id"`
	Action      models.ApprovalAction `json:"action"`
	FromStage   string                `json:"from_stage"`
	ToStage     string                `json:"to_stage"`
	FromVersion int                   `json:"from_version"`
	ToVersion   int                   `json:"to_version"`
	ActorID     string                `json:"actor_id"`
	ActorName   string                `json:"actor_name,omitempty"`
	Comment     string                `json:"comment,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistory) ApprovalHistoryView {
	view := ApprovalHistoryView{
		ID:          rec.ID,
		Action:      rec.Action,
		FromStage:   rec.FromStage.ToLower(),
		ToStage:     rec.ToStage.ToLower(),
		FromVersion: rec.FromVersion,
		ToVersion:   rec.ToVersion,
		ActorID:     rec.ActorID,
		Comment:     rec.Comment,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Actor != nil {
		view.ActorName = rec.Actor.GetFullName()
	}
	return view
}

type ApprovalCommentView struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func ApprovalCommentConvert(rec dbmodels.ApprovalComment) ApprovalCommentView {
	view := ApprovalCommentView{
		ID:        rec.ID,
		AuthorID:  rec.AuthorID,
		Body:      rec.Body,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Author != nil {
		view.AuthorName = rec.Author.GetFullName()
	}
	return view
}
