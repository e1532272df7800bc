package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/mansoorceksport/repflow/internal/middleware"
	"github.com/mansoorceksport/repflow/internal/service"
	"github.com/sirupsen/logrus"
)

// SessionHandler exposes live workout sessions of the authenticated user
type SessionHandler struct {
	manager *service.SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *service.SessionManager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// StartSessionRequest starts or resumes a workout
type StartSessionRequest struct {
	WorkoutID string `json:"workout_id"`
	Resume    string `json:"resume"` // ask, continue or fresh
}

// SetRef addresses one set
type SetRef struct {
	ExerciseIndex int `json:"exercise_index"`
	SetIndex      int `json:"set_index"`
}

// UpdateSetRequest edits a provisional weight or reps value
type UpdateSetRequest struct {
	SetRef
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

// resumeSnapshot is what the client needs to render the resume prompt
type resumeSnapshot struct {
	SessionID            string `json:"session_id"`
	Title                string `json:"title"`
	CompletedSets        int    `json:"completed_sets"`
	TotalSets            int    `json:"total_sets"`
	CurrentExerciseIndex int    `json:"current_exercise_index"`
	ElapsedSeconds       int    `json:"elapsed_seconds"`
	PendingSubmit        bool   `json:"pending_submit"`
}

// StartSession handles POST /v1/me/sessions
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WorkoutID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "workout_id is required"})
	}
	choice, err := service.ParseResumeChoice(req.Resume)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	controller, err := h.manager.Start(c.UserContext(), middleware.UserID(c), req.WorkoutID, choice)
	if err != nil {
		var resumeErr *domain.ResumeAvailableError
		if errors.As(err, &resumeErr) {
			snap := resumeErr.Snapshot
			completed, total := snap.Session.SetCounts()
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "resume_required",
				"snapshot": resumeSnapshot{
					SessionID:            snap.Session.ID,
					Title:                snap.Session.Title,
					CompletedSets:        completed,
					TotalSets:            total,
					CurrentExerciseIndex: snap.CurrentExerciseIndex,
					ElapsedSeconds:       snap.ElapsedSeconds,
					PendingSubmit:        snap.PendingSubmit(),
				},
			})
		}
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(controller.View())
}

// GetSession handles GET /v1/me/sessions/:workout_id
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(controller.View())
}

// UpdateSet handles PATCH /v1/me/sessions/:workout_id/sets
func (h *SessionHandler) UpdateSet(c *fiber.Ctx) error {
	var req UpdateSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := controller.UpdateField(c.UserContext(), req.ExerciseIndex, req.SetIndex, req.Field, req.Value); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(controller.View())
}

// CompleteSet handles POST /v1/me/sessions/:workout_id/sets/complete
func (h *SessionHandler) CompleteSet(c *fiber.Ctx) error {
	var req SetRef
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	outcome, err := controller.CompleteSet(c.UserContext(), req.ExerciseIndex, req.SetIndex)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"outcome": outcome,
		"session": controller.View(),
	})
}

// UncompleteSet handles POST /v1/me/sessions/:workout_id/sets/uncomplete
func (h *SessionHandler) UncompleteSet(c *fiber.Ctx) error {
	var req SetRef
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := controller.UncompleteSet(c.UserContext(), req.ExerciseIndex, req.SetIndex); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(controller.View())
}

// Navigate handles POST /v1/me/sessions/:workout_id/navigate
func (h *SessionHandler) Navigate(c *fiber.Ctx) error {
	var req struct {
		ExerciseIndex int `json:"exercise_index"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := controller.GoToExercise(c.UserContext(), req.ExerciseIndex); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(controller.View())
}

// ExtendRest handles POST /v1/me/sessions/:workout_id/rest/extend
func (h *SessionHandler) ExtendRest(c *fiber.Ctx) error {
	var req struct {
		Seconds int `json:"seconds"`
	}
	// empty body means the default step
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	extended, err := controller.ExtendRest(req.Seconds)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"extended": extended,
		"rest":     controller.View().Rest,
	})
}

// SkipRest handles POST /v1/me/sessions/:workout_id/rest/skip
func (h *SessionHandler) SkipRest(c *fiber.Ctx) error {
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := controller.SkipRest(); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"rest": controller.View().Rest})
}

// SetUnit handles PUT /v1/me/sessions/:workout_id/unit
func (h *SessionHandler) SetUnit(c *fiber.Ctx) error {
	var req struct {
		Unit string `json:"unit"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := controller.SetWeightUnit(c.UserContext(), req.Unit); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(controller.View())
}

// FinishEarly handles POST /v1/me/sessions/:workout_id/finish
func (h *SessionHandler) FinishEarly(c *fiber.Ctx) error {
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := controller.FinishEarly(c.UserContext(), req.Confirmed); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(controller.View())
}

// Submit handles POST /v1/me/sessions/:workout_id/submit
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	summary, err := controller.Submit(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

// Guards handles GET /v1/me/sessions/:workout_id/guards?destination=
func (h *SessionHandler) Guards(c *fiber.Ctx) error {
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"navigation_confirmation": controller.RequiresNavigationConfirmation(c.Query("destination")),
		"unload_confirmation":     controller.RequiresUnloadConfirmation(),
	})
}

// Hint handles GET /v1/me/sessions/:workout_id/hint?exercise_index=&set_index=
func (h *SessionHandler) Hint(c *fiber.Ctx) error {
	controller, err := h.controller(c)
	if err != nil {
		return h.fail(c, err)
	}
	hint := controller.HintFor(c.QueryInt("exercise_index"), c.QueryInt("set_index"))
	return c.JSON(fiber.Map{"previous": hint})
}

// CloseSession handles DELETE /v1/me/sessions/:workout_id
func (h *SessionHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.manager.Close(c.UserContext(), middleware.UserID(c), c.Params("workout_id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Session closed"})
}

func (h *SessionHandler) controller(c *fiber.Ctx) (*service.SessionController, error) {
	return h.manager.Get(middleware.UserID(c), c.Params("workout_id"))
}

// fail maps engine errors to HTTP responses
func (h *SessionHandler) fail(c *fiber.Ctx, err error) error {
	var (
		incomplete *domain.IncompleteInputError
		loadErr    *domain.DefinitionLoadError
		submitErr  *domain.SubmitError
	)

	switch {
	case errors.As(err, &incomplete):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":          err.Error(),
			"exercise_index": incomplete.ExerciseIndex,
			"set_index":      incomplete.SetIndex,
		})
	case errors.As(err, &loadErr):
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logrus.WithError(err).Error("workout definition fetch failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &submitErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": submitErr.Retryable(),
		})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrConfirmationRequired):
		return c.Status(fiber.StatusPreconditionRequired).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionClosed):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyWorkout):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidField),
		errors.Is(err, domain.ErrInvalidUnit):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrSetLocked),
		errors.Is(err, domain.ErrSessionNotActive),
		errors.Is(err, domain.ErrSessionNotCompleted),
		errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrAlreadyInitialized),
		errors.Is(err, domain.ErrNotInitialized):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	logrus.WithError(err).Error("session request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
