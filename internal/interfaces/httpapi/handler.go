package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/luigi1104/shotmap/internal/domain/report"
	"github.com/luigi1104/shotmap/internal/platform/cache"
	"github.com/luigi1104/shotmap/internal/platform/logging"
	"github.com/luigi1104/shotmap/internal/usecase"
)

type Handler struct {
	reportService *usecase.ReportService
	reportCache   *cache.Store
	logger        *logging.Logger
	validator     *validator.Validate
}

// NewHandler builds the HTTP handler set. reportCache may be nil to disable
// response caching.
func NewHandler(
	reportService *usecase.ReportService,
	reportCache *cache.Store,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		reportService: reportService,
		reportCache:   reportCache,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type reportParams struct {
	Player string `validate:"required,min=2"`
	Season string `validate:"required,len=4,number"`
}

func (h *Handler) GetPlayerReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerReport")
	defer span.End()

	params := reportParams{
		Player: strings.TrimSpace(r.PathValue("player")),
		Season: strings.TrimSpace(r.PathValue("season")),
	}
	if err := h.validator.Struct(params); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: player name and a 4-digit season are required", usecase.ErrInvalidInput))
		return
	}

	item, err := h.generateReport(ctx, params)
	if err != nil {
		h.logger.WarnContext(ctx, "player report failed",
			"player", params.Player,
			"season", params.Season,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(ctx, item))
}

func (h *Handler) generateReport(ctx context.Context, params reportParams) (report.PlayerReport, error) {
	input := usecase.GenerateReportInput{
		PlayerName: params.Player,
		Season:     params.Season,
	}
	if h.reportCache == nil {
		return h.reportService.GenerateReport(ctx, input)
	}

	key := cache.Key("report", strings.ToLower(params.Player), params.Season)
	out, err := h.reportCache.GetOrCompute(ctx, key, func() (any, error) {
		return h.reportService.GenerateReport(ctx, input)
	})
	if err != nil {
		return report.PlayerReport{}, err
	}
	item, ok := out.(report.PlayerReport)
	if !ok {
		return report.PlayerReport{}, fmt.Errorf("unexpected cached payload type %T", out)
	}
	return item, nil
}
