package coachapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/sirupsen/logrus"
)

// Endpoints of the coaching platform
const (
	assignedCompletePath = "/v1/client-workouts/%s/complete"
	independentLogPath   = "/v1/workout-logs"
)

// ErrMissingAssignment is returned when an assigned session carries no assignment id
var ErrMissingAssignment = errors.New("assigned workout completion requires an assignment id")

// Config holds coaching platform API configuration
type Config struct {
	BaseURL string        // e.g., "https://api.example.com"
	APIKey  string        // service token sent as Bearer
	Timeout time.Duration // per request
}

// Client talks to the completion endpoints of the coaching platform
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new coaching platform client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// assignedSet is the set shape expected by trainer-assigned workouts
type assignedSet struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

type assignedExercise struct {
	ExerciseID string        `json:"exercise_id"`
	Sets       []assignedSet `json:"sets"`
}

// AssignedCompletionRequest is the body for POST /v1/client-workouts/:id/complete
type AssignedCompletionRequest struct {
	SessionID       string             `json:"session_id"`
	CompletedAt     time.Time          `json:"completed_at"`
	DurationMinutes int                `json:"duration_minutes"`
	Exercises       []assignedExercise `json:"exercises"`
}

// rewardResponse covers both endpoints; the assigned one nests the reward under "data"
type rewardResponse struct {
	XPAwarded *int `json:"xp_awarded"`
	Data      *struct {
		XPAwarded *int `json:"xp_awarded"`
	} `json:"data"`
}

// CompleteAssignedWorkout submits a trainer/client-assigned workout
func (c *Client) CompleteAssignedWorkout(ctx context.Context, payload *domain.CompletionPayload) (*domain.CompletionReward, error) {
	if payload.AssignmentID == "" {
		return nil, ErrMissingAssignment
	}

	body := AssignedCompletionRequest{
		SessionID:       payload.SessionID,
		CompletedAt:     payload.CompletedAt,
		DurationMinutes: payload.DurationMinutes,
		Exercises:       make([]assignedExercise, 0, len(payload.Exercises)),
	}
	for _, ex := range payload.Exercises {
		sets := make([]assignedSet, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			sets = append(sets, assignedSet{SetNumber: s.SetNumber, Weight: s.WeightKg, Reps: s.Reps})
		}
		body.Exercises = append(body.Exercises, assignedExercise{ExerciseID: ex.ExerciseID, Sets: sets})
	}

	path := fmt.Sprintf(assignedCompletePath, url.PathEscape(payload.AssignmentID))
	return c.post(ctx, path, payload.SessionID, body)
}

// LogIndependentWorkout submits a self-tracked workout; the payload is sent as is
func (c *Client) LogIndependentWorkout(ctx context.Context, payload *domain.CompletionPayload) (*domain.CompletionReward, error) {
	return c.post(ctx, independentLogPath, payload.SessionID, payload)
}

// Assigned adapts the client to domain.CompletionClient for assigned sessions
func (c *Client) Assigned() domain.CompletionClient {
	return completionFunc(c.CompleteAssignedWorkout)
}

// Independent adapts the client to domain.CompletionClient for independent sessions
func (c *Client) Independent() domain.CompletionClient {
	return completionFunc(c.LogIndependentWorkout)
}

type completionFunc func(ctx context.Context, payload *domain.CompletionPayload) (*domain.CompletionReward, error)

func (f completionFunc) SubmitCompletion(ctx context.Context, payload *domain.CompletionPayload) (*domain.CompletionReward, error) {
	return f(ctx, payload)
}

func (c *Client) post(ctx context.Context, path string, correlationID string, body interface{}) (*domain.CompletionReward, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	// lets the platform deduplicate repeated submissions of the same session
	req.Header.Set("X-Correlation-ID", correlationID)
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	logrus.WithFields(logrus.Fields{"path": path, "session_id": correlationID}).Debug("[coachapi] submitting completion")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("coach API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	reward := &domain.CompletionReward{}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return reward, nil
	}

	var parsed rewardResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	reward.XPAwarded = parsed.XPAwarded
	if reward.XPAwarded == nil && parsed.Data != nil {
		reward.XPAwarded = parsed.Data.XPAwarded
	}
	return reward, nil
}
