package services

import (
	"context"

	"taskboard/microservices/projects-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hydrator loads the relations of a project for the read side.
type Hydrator struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
}

func NewHydrator(projects ProjectStore, tasks TaskStore, users UserStore) *Hydrator {
	return &Hydrator{projects: projects, tasks: tasks, users: users}
}

// Populate returns p with every requested relation path loaded. References
// that are empty on p, or that point at missing documents, stay nil.
func (h *Hydrator) Populate(ctx context.Context, p *models.Project, relations []string) (*models.ProjectView, error) {
	want := make(map[string]bool, len(relations))
	for _, r := range relations {
		want[r] = true
	}

	view := &models.ProjectView{Project: *p, Tasks: []models.TaskView{}}

	refs := map[string]*primitive.ObjectID{
		models.RelationDependsOn:  p.DependsOn,
		models.RelationRootParent: p.RootParentID,
		models.RelationSubParent:  p.SubParentID,
	}
	var ids []primitive.ObjectID
	for rel, ref := range refs {
		if want[rel] && ref != nil {
			ids = append(ids, *ref)
		}
	}

	related, err := h.projects.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.Project, len(related))
	for i := range related {
		byID[related[i].ID] = &related[i]
	}
	lookup := func(rel string, ref *primitive.ObjectID) *models.Project {
		if !want[rel] || ref == nil {
			return nil
		}
		return byID[*ref]
	}
	view.DependsOnProject = lookup(models.RelationDependsOn, p.DependsOn)
	view.RootParent = lookup(models.RelationRootParent, p.RootParentID)
	view.SubParent = lookup(models.RelationSubParent, p.SubParentID)

	if !want[models.RelationTasks] {
		count, err := h.tasks.CountByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		view.TaskCount = count
		return view, nil
	}

	tasks, err := h.tasks.FindByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	view.TaskCount = int64(len(tasks))

	users := map[primitive.ObjectID]*models.UserSummary{}
	if want[models.RelationTaskUsers] {
		var userIDs []primitive.ObjectID
		for _, t := range tasks {
			if t.UserID != nil {
				userIDs = append(userIDs, *t.UserID)
			}
		}
		summaries, err := h.users.FindSummaries(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for i := range summaries {
			users[summaries[i].ID] = &summaries[i]
		}
	}

	for _, t := range tasks {
		tv := models.TaskView{Task: t}
		if want[models.RelationTaskProjects] {
			owner := *p
			tv.Project = &owner
		}
		if t.UserID != nil {
			tv.User = users[*t.UserID]
		}
		view.Tasks = append(view.Tasks, tv)
	}
	return view, nil
}
