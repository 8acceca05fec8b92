package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateProjectRequest struct {
	Title               string              `json:"title"`
	Description         string              `json:"description,omitempty"`
	ProjectType         ProjectType         `json:"projectType,omitempty"`
	ProjectTypeBehavior ProjectTypeBehavior `json:"projectTypeBehavior,omitempty"`
	RootParentID        *primitive.ObjectID `json:"rootParentId,omitempty"`
	SubParentID         *primitive.ObjectID `json:"subParentId,omitempty"`
	DependsOn           *primitive.ObjectID `json:"dependsOn,omitempty"`
	ProgressStage       string              `json:"progressStage,omitempty"`
	Stages              []string            `json:"stages,omitempty"`
	IsEnabled           *bool               `json:"isEnabled,omitempty"`
	StartAt             *time.Time          `json:"startAt,omitempty"`
	EndAt               *time.Time          `json:"endAt,omitempty"`
}

// Type returns the requested project type, defaulting to ROOT.
func (r CreateProjectRequest) Type() ProjectType {
	if r.ProjectType == "" {
		return ProjectTypeRoot
	}
	return r.ProjectType
}

type CreateProjectResult struct {
	Message string       `json:"message"`
	Data    *ProjectView `json:"data"`
}
