package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskboard/microservices/projects-service/apperrors"
	"taskboard/microservices/projects-service/logging"
	"taskboard/microservices/projects-service/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHeader carries the id of the already-authenticated caller.
const UserHeader = "User-ID"

type ProjectService interface {
	CreateProject(ctx context.Context, user models.ActiveUser, req models.CreateProjectRequest) (*models.CreateProjectResult, error)
	GetProject(ctx context.Context, id primitive.ObjectID) (*models.ProjectView, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type ProjectHandler struct {
	Service ProjectService
	Users   UserLookup
	Timeout time.Duration
}

func NewProjectHandler(service ProjectService, users UserLookup, timeout time.Duration) *ProjectHandler {
	return &ProjectHandler{Service: service, Users: users, Timeout: timeout}
}

type response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	user, ok := h.activeUser(ctx, w, r)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid request payload"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, response{Message: "Project title is required"})
		return
	}
	if !req.ProjectType.Valid() {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid project type"})
		return
	}
	if !req.ProjectTypeBehavior.Valid() {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid project type behavior"})
		return
	}

	result, err := h.Service.CreateProject(ctx, user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{Message: result.Message, Data: result.Data})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid project ID"})
		return
	}

	view, err := h.Service.GetProject(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Message: "Project retrieved successfully", Data: view})
}

func (h *ProjectHandler) activeUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.ActiveUser, bool) {
	header := r.Header.Get(UserHeader)
	if header == "" {
		writeJSON(w, http.StatusUnauthorized, response{Message: "User-ID header is required"})
		return models.ActiveUser{}, false
	}
	id, err := primitive.ObjectIDFromHex(header)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid User-ID header"})
		return models.ActiveUser{}, false
	}

	user, err := h.Users.FindByID(ctx, id)
	if apperrors.Is(err, apperrors.KindNotFoundRelated) {
		writeJSON(w, http.StatusUnauthorized, response{Message: "User not found"})
		return models.ActiveUser{}, false
	}
	if err != nil {
		writeError(w, err)
		return models.ActiveUser{}, false
	}
	return user.Active(), true
}

func (h *ProjectHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.Timeout)
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindSchemaValidation:
		return http.StatusBadRequest
	case apperrors.KindQuotaExceeded:
		return http.StatusPaymentRequired
	case apperrors.KindDuplicateKey:
		return http.StatusConflict
	case apperrors.KindNotFoundRelated:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(apperrors.KindOf(err))
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
	}
	writeJSON(w, status, response{Message: apperrors.PublicMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Warnf("Event ID: RESPONSE_ENCODE_FAILED, Description: %v", err)
	}
}
