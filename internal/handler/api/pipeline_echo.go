package api

import (
	"time"

	"FusionGate/internal/usecase"
	xhttp "FusionGate/pkg/http"
	xlogger "FusionGate/pkg/logger"
	"FusionGate/pkg/util"

	"github.com/labstack/echo/v4"
)

// PipelineEchoHandler serves the pipeline's read and control surfaces.
type PipelineEchoHandler struct {
	logger *xlogger.Logger
	eval   *usecase.Evaluator
}

func NewPipelineEchoHandler(logger *xlogger.Logger, eval *usecase.Evaluator) *PipelineEchoHandler {
	return &PipelineEchoHandler{logger: logger, eval: eval}
}

func (h *PipelineEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/fusion", h.Fusion)
	g.GET("/threat", h.Threat)
	g.GET("/threat/history", h.ThreatHistory)
	g.GET("/divergence", h.Divergence)
	g.GET("/decision", h.Decision)
	g.POST("/engine/weights", h.UpdateWeights)
	g.POST("/engine/threat-modifier", h.ThreatModifier)
	g.POST("/engine/confidence-reduction", h.ConfidenceReduction)
}

// Fusion returns the latest raw and stabilized fusion outputs.
func (h *PipelineEchoHandler) Fusion(c echo.Context) error {
	res := h.eval.LatestResult()
	if res == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no evaluation cycle has completed yet"))
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"fusion":     res.Fusion,
		"stabilized": res.Stabilized,
		"timestamp":  res.Timestamp,
	})
}

// Threat returns the divergence controller's latest classification.
func (h *PipelineEchoHandler) Threat(c echo.Context) error {
	sum := h.eval.ThreatSummary()
	if sum == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no divergence observations yet"))
	}
	return xhttp.SuccessResponse(c, sum)
}

// ThreatHistory returns retained divergence observations, optionally
// filtered by a since timestamp (RFC3339 or unix seconds).
func (h *PipelineEchoHandler) ThreatHistory(c echo.Context) error {
	since := util.ParseTimeDefault(c.QueryParam("since"), time.Time{})
	hist := h.eval.ThreatHistory()
	if !since.IsZero() {
		filtered := hist[:0:0]
		for _, obs := range hist {
			if !obs.Timestamp.Before(since) {
				filtered = append(filtered, obs)
			}
		}
		hist = filtered
	}
	return xhttp.ListResponse(c, hist, int64(len(hist)))
}

// Divergence returns the latest reality scan report.
func (h *PipelineEchoHandler) Divergence(c echo.Context) error {
	res := h.eval.LatestResult()
	if res == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no evaluation cycle has completed yet"))
	}
	return xhttp.SuccessResponse(c, res.Report)
}

// Decision returns the latest trade decision and trigger outcome.
func (h *PipelineEchoHandler) Decision(c echo.Context) error {
	res := h.eval.LatestResult()
	if res == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no evaluation cycle has completed yet"))
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"decision": res.Decision,
		"trigger":  res.Trigger,
	})
}

// WeightsRequest re-tunes the engine blend. Absent fields keep their value.
type WeightsRequest struct {
	Core               *float64 `json:"core" validate:"omitempty,gte=0,lte=1"`
	Divergence         *float64 `json:"divergence" validate:"omitempty,gte=0,lte=1"`
	Stabilizer         *float64 `json:"stabilizer" validate:"omitempty,gte=0,lte=1"`
	StabilityPenalty   *float64 `json:"stability_penalty" validate:"omitempty,gte=0"`
	CorrelationPenalty *float64 `json:"correlation_penalty" validate:"omitempty,gte=0"`
}

func (h *PipelineEchoHandler) UpdateWeights(c echo.Context) error {
	req := &WeightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.eval.UpdateWeights(req.Core, req.Divergence, req.Stabilizer, req.StabilityPenalty, req.CorrelationPenalty)
	w, p := h.eval.EngineWeights()
	h.logger.Info("engine weights updated",
		xlogger.Any("weights", w),
		xlogger.Any("penalties", p))
	return xhttp.SuccessResponse(c, echo.Map{"weights": w, "penalties": p})
}

// ThreatModifierRequest replaces the engine's multiplicative modifier.
type ThreatModifierRequest struct {
	Value *float64 `json:"value" validate:"required"`
}

func (h *PipelineEchoHandler) ThreatModifier(c echo.Context) error {
	req := &ThreatModifierRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.eval.SetThreatModifier(*req.Value)
	h.logger.Info("threat modifier updated", xlogger.Any("value", *req.Value))
	return xhttp.SuccessResponse(c, echo.Map{"value": *req.Value})
}

// ConfidenceReductionRequest sets the confidence reduction percentage.
type ConfidenceReductionRequest struct {
	Percent *float64 `json:"percent" validate:"required"`
}

func (h *PipelineEchoHandler) ConfidenceReduction(c echo.Context) error {
	req := &ConfidenceReductionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.eval.ReduceConfidence(*req.Percent)
	h.logger.Info("confidence reduction updated", xlogger.Any("percent", *req.Percent))
	return xhttp.SuccessResponse(c, echo.Map{"percent": *req.Percent})
}
