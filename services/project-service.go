package services

import (
	"context"
	"errors"
	"time"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/logging"
	"taskboard/microservices/projects-service/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCreatedMessage = "Project created successfully"

type Options struct {
	// ReuseParentDocument builds the new project on top of the located root
	// parent: request fields win, unset creatable fields come from the parent.
	ReuseParentDocument bool
	RequireParent       bool
	CompensationTimeout time.Duration
	// Relations hydrated into creation and read results.
	Relations []string
}

type ProjectService struct {
	projects  ProjectStore
	tx        Transactor
	quota     *QuotaLedger
	hierarchy *HierarchyResolver
	hydrator  *Hydrator
	metrics   *Metrics
	opts      Options
	now       func() time.Time
}

// NewProjectService wires the creation workflow. tx and metrics may be nil.
func NewProjectService(projects ProjectStore, tasks TaskStore, users UserStore, tx Transactor, metrics *Metrics, opts Options) *ProjectService {
	if tx == nil {
		tx = directTx{}
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if opts.CompensationTimeout <= 0 {
		opts.CompensationTimeout = 5 * time.Second
	}
	if opts.Relations == nil {
		opts.Relations = models.DefaultRelations
	}
	return &ProjectService{
		projects:  projects,
		tx:        tx,
		quota:     NewQuotaLedger(users),
		hierarchy: NewHierarchyResolver(projects, tasks, opts.RequireParent),
		hydrator:  NewHydrator(projects, tasks, users),
		metrics:   metrics,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateProject runs one creation request: preflight, quota reservation,
// parent resolution, write, hydration. Without an atomic transactor a later
// failure releases the reserved quota and reverts a parent flip before the
// error is returned.
func (s *ProjectService) CreateProject(ctx context.Context, user models.ActiveUser, req models.CreateProjectRequest) (*models.CreateProjectResult, error) {
	log := logging.Logger.WithFields(logrus.Fields{
		"correlationId": uuid.New().String(),
		"userId":        user.ID.Hex(),
		"projectType":   string(req.Type()),
	})

	if err := s.hierarchy.Preflight(req); err != nil {
		s.logFailure(log, "PROJECT_VALIDATION_FAILED", err)
		return nil, err
	}

	var (
		project    *models.Project
		resolution ParentResolution
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) (err error) {
		// reset on every attempt; a transaction may retry fn
		project, resolution = nil, ParentResolution{}

		reservation, err := s.quota.Reserve(ctx, user, req.Type())
		if err != nil {
			if apperrors.Is(err, apperrors.KindQuotaExceeded) {
				s.metrics.QuotaRejected.WithLabelValues(string(user.Tier)).Inc()
			}
			return err
		}
		defer func() {
			if err != nil {
				err = classify(err)
				s.undo(ctx, log, &reservation, resolution, err)
			}
		}()

		resolution, err = s.hierarchy.ResolveParent(ctx, req)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		project, err = s.write(ctx, user, req, resolution)
		return err
	})
	if err != nil {
		err = classify(err)
		s.logFailure(log, "PROJECT_CREATE_FAILED", err)
		return nil, err
	}

	s.metrics.Created.WithLabelValues(string(project.ProjectType)).Inc()
	if resolution.Flipped {
		s.metrics.ParentFlipped.Inc()
		log.Infof("Event ID: PARENT_BEHAVIOR_FLIPPED, Description: Parent project %s is now %s", resolution.Parent.ID.Hex(), models.BehaviorNormal)
	}
	if resolution.Message != "" {
		s.metrics.ParentAdvisories.Inc()
	}
	if resolution.Parent != nil {
		s.countSubProject(ctx, log, resolution.Parent.ID)
	}
	log.Infof("Event ID: PROJECT_CREATED, Description: Project %s (%s) created", project.ID.Hex(), project.Title)

	message := resolution.Message
	if message == "" {
		message = DefaultCreatedMessage
	}
	return &models.CreateProjectResult{Message: message, Data: s.hydrate(ctx, log, project)}, nil
}

// GetProject returns one project with its relations loaded.
func (s *ProjectService) GetProject(ctx context.Context, id primitive.ObjectID) (*models.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	view, err := s.hydrator.Populate(ctx, project, s.opts.Relations)
	if err != nil {
		return nil, classify(err)
	}
	return view, nil
}

func (s *ProjectService) write(ctx context.Context, user models.ActiveUser, req models.CreateProjectRequest, res ParentResolution) (*models.Project, error) {
	if s.opts.ReuseParentDocument && res.Parent != nil {
		project := NewProjectFromRequest(req, user.ID, s.now(), res.Parent)
		return project, s.projects.ReplaceAsNew(ctx, project)
	}
	project := NewProjectFromRequest(req, user.ID, s.now(), nil)
	return project, s.projects.Insert(ctx, project)
}

// NewProjectFromRequest builds a fresh project value. When template is set,
// creatable fields the request leaves empty are copied from it; identity,
// audit timestamps, counters and parent links never are.
func NewProjectFromRequest(req models.CreateProjectRequest, owner primitive.ObjectID, now time.Time, template *models.Project) *models.Project {
	p := &models.Project{
		Title:               req.Title,
		Description:         req.Description,
		ProjectType:         req.Type(),
		ProjectTypeBehavior: req.ProjectTypeBehavior,
		RootParentID:        req.RootParentID,
		SubParentID:         req.SubParentID,
		DependsOn:           req.DependsOn,
		ProgressStage:       req.ProgressStage,
		Stages:              req.Stages,
		IsEnabled:           true,
		OwnerID:             owner,
		StartAt:             req.StartAt,
		EndAt:               req.EndAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.IsEnabled != nil {
		p.IsEnabled = *req.IsEnabled
	}

	if template != nil {
		if p.Description == "" {
			p.Description = template.Description
		}
		if p.ProgressStage == "" {
			p.ProgressStage = template.ProgressStage
		}
		if p.Stages == nil {
			p.Stages = append([]string(nil), template.Stages...)
		}
		if p.StartAt == nil {
			p.StartAt = template.StartAt
		}
		if p.EndAt == nil {
			p.EndAt = template.EndAt
		}
		if req.IsEnabled == nil {
			p.IsEnabled = template.IsEnabled
		}
	}

	if p.ProjectTypeBehavior == "" {
		p.ProjectTypeBehavior = models.BehaviorLeafy
	}
	if p.ProgressStage == "" {
		p.ProgressStage = models.DefaultProgressStage
	}
	if p.Stages == nil {
		p.Stages = []string{}
	}
	return p
}

// undo rolls back the side effects of a failed creation. An atomic
// transactor aborts them along with the write, and its session is already
// unusable, so nothing is sent in that case.
func (s *ProjectService) undo(ctx context.Context, log *logrus.Entry, r *Reservation, res ParentResolution, cause error) {
	if !r.Held() && !res.Flipped {
		return
	}
	if s.tx.Atomic() {
		log.Infof("Event ID: CREATE_ROLLED_BACK, Description: Transaction aborted after %s failure; quota and parent changes discarded", apperrors.KindOf(cause))
		return
	}

	// survives the caller's cancellation
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.CompensationTimeout)
	defer cancel()

	if res.Flipped {
		s.revertFlip(cctx, log, res.Parent.ID)
	}
	s.compensate(cctx, log, r, cause)
}

func (s *ProjectService) compensate(ctx context.Context, log *logrus.Entry, r *Reservation, cause error) {
	if !r.Held() {
		return
	}
	released, err := s.quota.Release(ctx, r)
	if err != nil {
		log.Errorf("Event ID: QUOTA_COMPENSATION_FAILED, Description: Could not release reserved project quota: %v", err)
		return
	}
	if !released {
		log.Warnf("Event ID: QUOTA_COMPENSATION_NOOP, Description: No project quota left to release after %s failure; counter was not decremented", apperrors.KindOf(cause))
		return
	}
	s.metrics.QuotaCompensated.WithLabelValues(string(apperrors.KindOf(cause))).Inc()
	log.Warnf("Event ID: QUOTA_COMPENSATED, Description: Released project quota after %s failure, total back to %d", apperrors.KindOf(cause), r.Total)
}

func (s *ProjectService) revertFlip(ctx context.Context, log *logrus.Entry, parentID primitive.ObjectID) {
	reverted, err := s.hierarchy.RevertFlip(ctx, parentID)
	if err != nil {
		log.Errorf("Event ID: PARENT_REVERT_FAILED, Description: Could not put parent project %s back to %s: %v", parentID.Hex(), models.BehaviorLeafy, err)
		return
	}
	if !reverted {
		log.Infof("Event ID: PARENT_REVERT_SKIPPED, Description: Parent project %s gained sub-projects meanwhile and stays %s", parentID.Hex(), models.BehaviorNormal)
		return
	}
	s.metrics.ParentReverted.Inc()
	log.Warnf("Event ID: PARENT_BEHAVIOR_REVERTED, Description: Parent project %s is %s again", parentID.Hex(), models.BehaviorLeafy)
}

func (s *ProjectService) countSubProject(ctx context.Context, log *logrus.Entry, parentID primitive.ObjectID) {
	if err := s.projects.IncrementField(ctx, parentID, fieldTotalSubProjects, 1); err != nil {
		log.Warnf("Event ID: SUBPROJECT_COUNTER_FAILED, Description: Could not bump totalSubProjects on %s: %v", parentID.Hex(), err)
	}
}

// hydrate never fails the request: the project is already stored.
func (s *ProjectService) hydrate(ctx context.Context, log *logrus.Entry, project *models.Project) *models.ProjectView {
	view, err := s.hydrator.Populate(ctx, project, s.opts.Relations)
	if err != nil {
		log.Warnf("Event ID: PROJECT_HYDRATION_FAILED, Description: Returning project %s without relations: %v", project.ID.Hex(), err)
		return &models.ProjectView{Project: *project, Tasks: []models.TaskView{}}
	}
	return view
}

func (s *ProjectService) logFailure(log *logrus.Entry, event string, err error) {
	log.Warnf("Event ID: %s, Description: %s: %s", event, apperrors.KindOf(err), apperrors.PublicMessage(err))
	log.Debugf("Event ID: %s, Description: %+v", event, err)
}

// classify gives every error an explicit kind so callers never see an
// untyped failure.
func classify(err error) error {
	var appErr *apperrors.Error
	if err == nil || errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal("project creation failed", err)
}
