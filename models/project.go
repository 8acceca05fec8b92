package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectType string

const (
	ProjectTypeRoot       ProjectType = "ROOT"
	ProjectTypeSubProject ProjectType = "SUB_PROJECT"
)

// IsRoot treats an unset type as ROOT.
func (t ProjectType) IsRoot() bool {
	return t == "" || t == ProjectTypeRoot
}

// Valid reports whether t is unset or one of the known types. Matching is
// exact: "root" is not ROOT.
func (t ProjectType) Valid() bool {
	return t == "" || t == ProjectTypeRoot || t == ProjectTypeSubProject
}

type ProjectTypeBehavior string

const (
	// BehaviorLeafy projects may have tasks attached directly.
	BehaviorLeafy ProjectTypeBehavior = "LEAFY"
	// BehaviorNormal projects are pure containers for sub-projects.
	BehaviorNormal ProjectTypeBehavior = "NORMAL"
)

func (b ProjectTypeBehavior) Valid() bool {
	return b == "" || b == BehaviorLeafy || b == BehaviorNormal
}

const DefaultProgressStage = "backlog"

type Project struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title               string              `bson:"title" json:"title"`
	Description         string              `bson:"description,omitempty" json:"description,omitempty"`
	ProjectType         ProjectType         `bson:"projectType" json:"projectType"`
	ProjectTypeBehavior ProjectTypeBehavior `bson:"projectTypeBehavior" json:"projectTypeBehavior"`
	RootParentID        *primitive.ObjectID `bson:"rootParentId,omitempty" json:"rootParentId,omitempty"`
	SubParentID         *primitive.ObjectID `bson:"subParentId,omitempty" json:"subParentId,omitempty"`
	DependsOn           *primitive.ObjectID `bson:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	ProgressStage       string              `bson:"progressStage" json:"progressStage"`
	Stages              []string            `bson:"stages" json:"stages"`
	IsEnabled           bool                `bson:"isEnabled" json:"isEnabled"`
	TotalSubProjects    int                 `bson:"totalSubProjects" json:"totalSubProjects"`
	TotalProjectTodos   int                 `bson:"totalProjectTodos" json:"totalProjectTodos"`
	OwnerID             primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	StartAt             *time.Time          `bson:"startAt,omitempty" json:"startAt,omitempty"`
	EndAt               *time.Time          `bson:"endAt,omitempty" json:"endAt,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ProjectView is a Project with its relations loaded. Relation fields stay nil
// when the source reference is empty or was not requested.
type ProjectView struct {
	Project
	DependsOnProject *Project   `json:"dependsOnProject,omitempty"`
	RootParent       *Project   `json:"rootParent,omitempty"`
	SubParent        *Project   `json:"subParent,omitempty"`
	Tasks            []TaskView `json:"tasks"`
	TaskCount        int64      `json:"taskCount"`
}

// Relation paths understood by the hydrator.
const (
	RelationDependsOn    = "dependsOn"
	RelationRootParent   = "rootParentId"
	RelationSubParent    = "subParentId"
	RelationTasks        = "tasks"
	RelationTaskProjects = "tasks.projectId"
	RelationTaskUsers    = "tasks.userId"
)

// DefaultRelations is the full hydration set used after creation.
var DefaultRelations = []string{
	RelationDependsOn,
	RelationRootParent,
	RelationSubParent,
	RelationTasks,
	RelationTaskProjects,
	RelationTaskUsers,
}
