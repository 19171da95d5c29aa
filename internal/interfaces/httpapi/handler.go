package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

type Services struct {
	League   *usecase.LeagueService
	Draft    *usecase.DraftService
	Pick     *usecase.PickService
	Scoring  *usecase.ScoringService
	Waiver   *usecase.WaiverService
	Ranking  *usecase.RankingService
	Episode  *usecase.EpisodeService
	JobQueue *usecase.JobOrchestratorService
}

type Handler struct {
	leagueService   *usecase.LeagueService
	draftService    *usecase.DraftService
	pickService     *usecase.PickService
	scoringService  *usecase.ScoringService
	waiverService   *usecase.WaiverService
	rankingService  *usecase.RankingService
	episodeService  *usecase.EpisodeService
	jobOrchestrator *usecase.JobOrchestratorService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:   services.League,
		draftService:    services.Draft,
		pickService:     services.Pick,
		scoringService:  services.Scoring,
		waiverService:   services.Waiver,
		rankingService:  services.Ranking,
		episodeService:  services.Episode,
		jobOrchestrator: services.JobQueue,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into dst. An empty body is allowed when allowEmpty is set,
// which suits job endpoints whose payload only carries optional metadata.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any, allowEmpty bool) error {
	decoder := sonic.ConfigStd.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return h.validateRequest(ctx, dst)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func currentUserID(ctx context.Context) (string, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: missing user identity", usecase.ErrUnauthorized)
	}
	return userID, nil
}

func parseLimit(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
	}
	return v, nil
}
