package services

import (
	"context"
	"testing"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPreflight(t *testing.T) {
	id := primitive.NewObjectID()
	tests := []struct {
		name  string
		req   models.CreateProjectRequest
		field string
	}{
		{"root with root parent", models.CreateProjectRequest{Title: "a", RootParentID: &id}, "rootParentId"},
		{"explicit root with sub parent", models.CreateProjectRequest{Title: "a", ProjectType: models.ProjectTypeRoot, SubParentID: &id}, "subParentId"},
		{"sub-project without parent", models.CreateProjectRequest{Title: "a", ProjectType: models.ProjectTypeSubProject}, "rootParentId"},
		{"lowercase root", models.CreateProjectRequest{Title: "a", ProjectType: "root"}, "projectType"},
		{"unknown type", models.CreateProjectRequest{Title: "a", ProjectType: "FOO"}, "projectType"},
		{"unknown behavior", models.CreateProjectRequest{Title: "a", ProjectTypeBehavior: "Leafy"}, "projectTypeBehavior"},
		{"plain root", models.CreateProjectRequest{Title: "a"}, ""},
		{"sub-project with parent", models.CreateProjectRequest{Title: "a", ProjectType: models.ProjectTypeSubProject, RootParentID: &id}, ""},
	}

	h := NewHierarchyResolver(newMemProjects(), newMemTasks(), false)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := h.Preflight(tc.req)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestResolveParent_NoParent(t *testing.T) {
	h := NewHierarchyResolver(newMemProjects(), newMemTasks(), false)

	res, err := h.ResolveParent(context.Background(), models.CreateProjectRequest{Title: "a"})

	require.NoError(t, err)
	assert.Nil(t, res.Parent)
	assert.Empty(t, res.Message)
}

func TestResolveParent_MissingParent(t *testing.T) {
	req := models.CreateProjectRequest{Title: "a", ProjectType: models.ProjectTypeSubProject, RootParentID: objectID(primitive.NewObjectID())}

	t.Run("ignored by default", func(t *testing.T) {
		h := NewHierarchyResolver(newMemProjects(), newMemTasks(), false)
		res, err := h.ResolveParent(context.Background(), req)
		require.NoError(t, err)
		assert.Nil(t, res.Parent)
	})

	t.Run("rejected when required", func(t *testing.T) {
		h := NewHierarchyResolver(newMemProjects(), newMemTasks(), true)
		_, err := h.ResolveParent(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFoundRelated))
	})
}

func TestResolveParent_FlipsEmptyLeafyParent(t *testing.T) {
	parent := newProject("parent", models.BehaviorLeafy)
	projects := newMemProjects(parent)
	h := NewHierarchyResolver(projects, newMemTasks(), false)
	req := models.CreateProjectRequest{Title: "child", ProjectType: models.ProjectTypeSubProject, RootParentID: objectID(parent.ID)}

	res, err := h.ResolveParent(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, res.Flipped)
	assert.Empty(t, res.Message)
	assert.Equal(t, models.BehaviorNormal, res.Parent.ProjectTypeBehavior)
	assert.Equal(t, models.BehaviorNormal, projects.get(parent.ID).ProjectTypeBehavior)
}

func TestResolveParent_LeafyParentWithTasksStaysLeafy(t *testing.T) {
	parent := newProject("parent", models.BehaviorLeafy)
	projects := newMemProjects(parent)
	tasks := newMemTasks(models.Task{ID: primitive.NewObjectID(), ProjectID: parent.ID, Title: "t"})
	h := NewHierarchyResolver(projects, tasks, false)
	req := models.CreateProjectRequest{Title: "child", ProjectType: models.ProjectTypeSubProject, RootParentID: objectID(parent.ID)}

	res, err := h.ResolveParent(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, res.Flipped)
	assert.Equal(t, TaskReassignmentAdvisory, res.Message)
	assert.Equal(t, models.BehaviorLeafy, projects.get(parent.ID).ProjectTypeBehavior)
	assert.Zero(t, projects.updateCalls)
}

func TestResolveParent_NormalParentUntouched(t *testing.T) {
	parent := newProject("parent", models.BehaviorNormal)
	projects := newMemProjects(parent)
	h := NewHierarchyResolver(projects, newMemTasks(), false)
	req := models.CreateProjectRequest{Title: "child", ProjectType: models.ProjectTypeSubProject, RootParentID: objectID(parent.ID)}

	res, err := h.ResolveParent(context.Background(), req)

	require.NoError(t, err)
	assert.NotNil(t, res.Parent)
	assert.False(t, res.Flipped)
	assert.Zero(t, projects.updateCalls)
}

func TestRevertFlip(t *testing.T) {
	t.Run("empty normal parent goes back to leafy", func(t *testing.T) {
		parent := newProject("parent", models.BehaviorNormal)
		projects := newMemProjects(parent)
		h := NewHierarchyResolver(projects, newMemTasks(), false)

		reverted, err := h.RevertFlip(context.Background(), parent.ID)

		require.NoError(t, err)
		assert.True(t, reverted)
		assert.Equal(t, models.BehaviorLeafy, projects.get(parent.ID).ProjectTypeBehavior)
	})

	t.Run("parent with sub-projects stays normal", func(t *testing.T) {
		parent := newProject("parent", models.BehaviorNormal)
		parent.TotalSubProjects = 1
		projects := newMemProjects(parent)
		h := NewHierarchyResolver(projects, newMemTasks(), false)

		reverted, err := h.RevertFlip(context.Background(), parent.ID)

		require.NoError(t, err)
		assert.False(t, reverted)
		assert.Equal(t, models.BehaviorNormal, projects.get(parent.ID).ProjectTypeBehavior)
	})
}
