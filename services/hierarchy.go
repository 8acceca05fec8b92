package services

import (
	"context"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskReassignmentAdvisory is returned when the requested parent still holds
// tasks and therefore stays LEAFY.
const TaskReassignmentAdvisory = "Project created, but the parent project still has tasks attached. Reassign its tasks to a sub-project before it can act as a container."

const (
	fieldProjectTypeBehavior = "projectTypeBehavior"
	fieldTotalSubProjects    = "totalSubProjects"
)

// ParentResolution is what the resolver learned about the requested parent.
type ParentResolution struct {
	// Parent is nil when no rootParentId was given or it points nowhere.
	Parent  *models.Project
	Message string
	Flipped bool
}

type HierarchyResolver struct {
	projects      ProjectStore
	tasks         TaskStore
	requireParent bool
}

func NewHierarchyResolver(projects ProjectStore, tasks TaskStore, requireParent bool) *HierarchyResolver {
	return &HierarchyResolver{projects: projects, tasks: tasks, requireParent: requireParent}
}

// Preflight checks the type against the supplied parent references. It does
// no I/O.
func (h *HierarchyResolver) Preflight(req models.CreateProjectRequest) error {
	switch {
	case !req.ProjectType.Valid():
		return apperrors.Validation("projectType", "unknown project type %q; expected %s or %s", req.ProjectType, models.ProjectTypeRoot, models.ProjectTypeSubProject)
	case !req.ProjectTypeBehavior.Valid():
		return apperrors.Validation("projectTypeBehavior", "unknown project type behavior %q; expected %s or %s", req.ProjectTypeBehavior, models.BehaviorLeafy, models.BehaviorNormal)
	case req.Type().IsRoot() && req.RootParentID != nil:
		return apperrors.Validation("rootParentId", "a root project cannot have a root parent id")
	case req.Type().IsRoot() && req.SubParentID != nil:
		return apperrors.Validation("subParentId", "a root project cannot have a sub-parent id")
	case req.Type() == models.ProjectTypeSubProject && req.RootParentID == nil:
		return apperrors.Validation("rootParentId", "a sub-project requires a parent id")
	}
	return nil
}

// ResolveParent loads the root parent and demotes it from LEAFY to NORMAL
// when it holds no tasks. A parent with tasks is left alone and an advisory
// message is returned instead.
func (h *HierarchyResolver) ResolveParent(ctx context.Context, req models.CreateProjectRequest) (ParentResolution, error) {
	if req.RootParentID == nil {
		return ParentResolution{}, nil
	}

	parent, err := h.projects.FindByID(ctx, *req.RootParentID)
	if apperrors.Is(err, apperrors.KindNotFoundRelated) {
		if h.requireParent {
			return ParentResolution{}, apperrors.NotFoundRelated("rootParentId", "root parent project %s does not exist", req.RootParentID.Hex())
		}
		return ParentResolution{}, nil
	}
	if err != nil {
		return ParentResolution{}, err
	}

	res := ParentResolution{Parent: parent}
	if parent.ProjectTypeBehavior != models.BehaviorLeafy {
		return res, nil
	}

	count, err := h.tasks.CountByProject(ctx, parent.ID)
	if err != nil {
		return ParentResolution{}, err
	}
	if count > 0 {
		res.Message = TaskReassignmentAdvisory
		return res, nil
	}

	// conditional so concurrent requests flip it once
	changed, err := h.projects.UpdateField(ctx, parent.ID, fieldProjectTypeBehavior, models.BehaviorLeafy, models.BehaviorNormal)
	if err != nil {
		return ParentResolution{}, err
	}
	parent.ProjectTypeBehavior = models.BehaviorNormal
	res.Flipped = changed
	return res, nil
}

// RevertFlip puts a parent demoted by ResolveParent back to LEAFY. It only
// applies while the parent is still NORMAL with no sub-projects counted, so a
// sibling that committed in the meantime keeps it NORMAL.
func (h *HierarchyResolver) RevertFlip(ctx context.Context, parentID primitive.ObjectID) (bool, error) {
	conditions := map[string]any{
		fieldProjectTypeBehavior: models.BehaviorNormal,
		fieldTotalSubProjects:    0,
	}
	return h.projects.UpdateFieldWhere(ctx, parentID, conditions, fieldProjectTypeBehavior, models.BehaviorLeafy)
}
