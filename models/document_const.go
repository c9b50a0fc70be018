package models

import (
	"strings"

	"github.com/pkg/errors"
)

// ContainerStatus is the ISO-style lifecycle bucket a generic document
// lives in. A document's status always equals its container's status,
// moving it to another container is the only way the status changes.
type ContainerStatus string

const (
	ContainerStatusWIP       ContainerStatus = "WORK_IN_PROGRESS"
	ContainerStatusShared    ContainerStatus = "SHARED"
	ContainerStatusPublished ContainerStatus = "PUBLISHED"
	ContainerStatusArchived  ContainerStatus = "ARCHIVED"
)

var containerStatusHumanName = map[ContainerStatus]string{
	ContainerStatusWIP:       "Work in progress",
	ContainerStatusShared:    "Shared",
	ContainerStatusPublished: "Published",
	ContainerStatusArchived:  "Archived",
}

func (s ContainerStatus) ToHuman() string {
	if human, exist := containerStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func ParseContainerStatus(value string) (ContainerStatus, error) {
	if value == "" {
		return ContainerStatusWIP, nil
	}
	status := ContainerStatus(strings.ToUpper(strings.TrimSpace(value)))
	if _, exist := containerStatusHumanName[status]; !exist {
		return "", errors.Errorf("unknown container status: %v", value)
	}
	return status, nil
}

func ContainerStatuses() []ContainerStatus {
	return []ContainerStatus{
		ContainerStatusWIP,
		ContainerStatusShared,
		ContainerStatusPublished,
		ContainerStatusArchived,
	}
}

type DocumentAction string

const (
	DocumentActionUploaded      DocumentAction = "uploaded"
	DocumentActionVersionAdded  DocumentAction = "version_added"
	DocumentActionContainerMove DocumentAction = "container_move"
)
