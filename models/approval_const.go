package models

import (
	"strings"

	"github.com/pkg/errors"
)

type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "PENDING"
	ApprovalStatusApproved  ApprovalStatus = "APPROVED"
	ApprovalStatusRejected  ApprovalStatus = "REJECTED"
	ApprovalStatusCompleted ApprovalStatus = "COMPLETED"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:   "Pending review",
	ApprovalStatusApproved:  "Approved",
	ApprovalStatusRejected:  "Rejected",
	ApprovalStatusCompleted: "Completed",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApprovalStatus) ToLower() string {
	return strings.ToLower(string(s))
}

// ParseApprovalStatus normalizes the caller supplied value.
// An empty value defaults to PENDING, unknown values are rejected at the boundary.
func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	if value == "" {
		return ApprovalStatusPending, nil
	}
	status := ApprovalStatus(strings.ToUpper(strings.TrimSpace(value)))
	switch status {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusCompleted:
		return status, nil
	}
	return "", errors.Errorf("unknown approval status: %v", value)
}

type ApprovalStage string

const (
	ApprovalStageDesign       ApprovalStage = "DESIGN"
	ApprovalStageKCS          ApprovalStage = "KCS"
	ApprovalStageVerification ApprovalStage = "VERIFICATION"
	ApprovalStageAppraisal    ApprovalStage = "APPRAISAL"
)

var approvalStageOrder = []ApprovalStage{
	ApprovalStageDesign,
	ApprovalStageKCS,
	ApprovalStageVerification,
	ApprovalStageAppraisal,
}

var approvalStageHumanName = map[ApprovalStage]string{
	ApprovalStageDesign:       "Design",
	ApprovalStageKCS:          "KCS",
	ApprovalStageVerification: "Verification",
	ApprovalStageAppraisal:    "Appraisal",
}

func (s ApprovalStage) ToHuman() string {
	if human, exist := approvalStageHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApprovalStage) ToLower() string {
	return strings.ToLower(string(s))
}

// Index returns the position of the stage in the review sequence,
// -1 for an unknown stage.
func (s ApprovalStage) Index() int {
	for k, stage := range approvalStageOrder {
		if stage == s {
			return k
		}
	}
	return -1
}

// IsFinal reports whether the stage is the terminal approval stage:
// APPROVED at this stage closes the review and sets the sign date.
func (s ApprovalStage) IsFinal() bool {
	return s == ApprovalStageAppraisal
}

// IsAllowChange validates a requested stage move against the allowed
// transition graph. A non-rejecting transition may stay on the current
// stage or advance exactly one step; a rejection may stay or return to
// any earlier stage. Forward jumps over a stage are never allowed.
func (s ApprovalStage) IsAllowChange(to ApprovalStage, status ApprovalStatus) bool {
	from := s.Index()
	next := to.Index()
	if from < 0 || next < 0 {
		return false
	}
	if status == ApprovalStatusRejected {
		return next <= from
	}
	return next == from || next == from+1
}

func ParseApprovalStage(value string) (ApprovalStage, error) {
	if value == "" {
		return ApprovalStageDesign, nil
	}
	stage := ApprovalStage(strings.ToUpper(strings.TrimSpace(value)))
	if stage.Index() < 0 {
		return "", errors.Errorf("unknown approval stage: %v", value)
	}
	return stage, nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var priorityWeight = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Weight is used for priority-descending ordering, unknown values sort last.
func (p Priority) Weight() int {
	return priorityWeight[p]
}

func ParsePriority(value string) (Priority, error) {
	if value == "" {
		return PriorityMedium, nil
	}
	priority := Priority(strings.ToUpper(strings.TrimSpace(value)))
	if _, exist := priorityWeight[priority]; !exist {
		return "", errors.Errorf("unknown priority: %v", value)
	}
	return priority, nil
}

type ApprovalAction string

const (
	ApprovalActionCreated  ApprovalAction = "created"
	ApprovalActionApproved ApprovalAction = "approved"
	ApprovalActionRejected ApprovalAction = "rejected"
	ApprovalActionUpdated  ApprovalAction = "updated"
)

var approvalActionComment = map[ApprovalAction]string{
	ApprovalActionCreated:  "Document created",
	ApprovalActionApproved: "Document approved",
	ApprovalActionRejected: "Document rejected",
	ApprovalActionUpdated:  "Document updated",
}

// DefaultComment is the canned history comment used when the caller supplies none.
func (a ApprovalAction) DefaultComment() string {
	if comment, exist := approvalActionComment[a]; exist {
		return comment
	}
	return string(a)
}
