package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"primerdesign/api/contexts"
	"primerdesign/api/models"
	"primerdesign/api/models/dtos"
	e "primerdesign/api/models/dtos/errors"
)

// DefaultParameters returns the design defaults with the service-level
// result count and candidate cap applied.
func DefaultParameters(cfg *models.Config) models.DesignParameters {
	params := models.DefaultDesignParameters()
	if cfg == nil {
		return params
	}
	if cfg.Api.ResultCount > 0 {
		params.ResultCount = cfg.Api.ResultCount
	}
	if cfg.Api.MaxCandidates > 0 {
		params.MaxCandidates = cfg.Api.MaxCandidates
	}
	return params
}

// EnforceCandidateCap treats the configured candidate cap as a ceiling:
// once one is set, requests may lower it but neither lift it nor ask for
// an unbounded enumeration with 0.
func EnforceCandidateCap(cfg *models.Config, params models.DesignParameters) error {
	if cfg == nil || cfg.Api.MaxCandidates <= 0 {
		return nil
	}
	if limit := cfg.Api.MaxCandidates; params.MaxCandidates < 1 || params.MaxCandidates > limit {
		return &models.InvalidParametersError{Field: "max_candidates", Reason: fmt.Sprintf("%d is outside 1-%d", params.MaxCandidates, limit)}
	}
	return nil
}

/*
Echo middleware building the DesignParameters of a design request.
Defaults come first, then a JSON body (POST), then query parameters.
The result is validated before any handler runs.
*/
func ValidateDesignParameters(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		pc := c.(*contexts.PrimerContext)
		params := DefaultParameters(pc.Config)

		if c.Request().Method == http.MethodPost && c.Request().ContentLength != 0 {
			// decoding onto the defaults keeps every field the body omits
			body := dtos.DesignRequestDTO{Parameters: &params}
			if err := c.Bind(&body); err != nil {
				return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(fmt.Sprintf("invalid request body: %v", err)))
			}
			pc.Target = body.Target()
		}

		if messages := applyQueryParameters(c, &params); len(messages) > 0 {
			return c.JSON(http.StatusBadRequest, e.CreateBadRequest(messages...))
		}

		err := params.Validate()
		if err == nil {
			err = EnforceCandidateCap(pc.Config, params)
		}
		if err != nil {
			var invalid *models.InvalidParametersError
			if errors.As(err, &invalid) && pc.Log != nil {
				pc.Log.Debug("rejected design parameters", zap.String("field", invalid.Field), zap.String("reason", invalid.Reason))
			}
			return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(err.Error()))
		}

		pc.DesignParameters = params
		return next(c)
	}
}

// applyQueryParameters overrides params with every query parameter present
// and returns one message per unparsable value.
func applyQueryParameters(c echo.Context, params *models.DesignParameters) []string {
	var messages []string

	intParam := func(name string, target *int) {
		qp := c.QueryParam(name)
		if len(qp) == 0 {
			return
		}
		v, err := strconv.Atoi(qp)
		if err != nil {
			messages = append(messages, fmt.Sprintf("%s must be an integer, got %q", name, qp))
			return
		}
		*target = v
	}
	floatParam := func(name string, target *float64) {
		qp := c.QueryParam(name)
		if len(qp) == 0 {
			return
		}
		v, err := strconv.ParseFloat(qp, 64)
		if err != nil {
			messages = append(messages, fmt.Sprintf("%s must be a number, got %q", name, qp))
			return
		}
		*target = v
	}

	intParam("primerMin", &params.PrimerLengthRange.Min)
	intParam("primerMax", &params.PrimerLengthRange.Max)
	intParam("productMin", &params.ProductSizeRange.Min)
	intParam("productMax", &params.ProductSizeRange.Max)
	floatParam("gcMin", &params.TargetGcRange.Min)
	floatParam("gcMax", &params.TargetGcRange.Max)
	floatParam("tmMin", &params.TargetTmRange.Min)
	floatParam("tmMax", &params.TargetTmRange.Max)
	floatParam("maxTmDifference", &params.MaxTmDifference)
	intParam("polyRunThreshold", &params.PolyRunThreshold)
	intParam("gcClampWindow", &params.GcClampWindow)
	intParam("maxCandidates", &params.MaxCandidates)
	intParam("count", &params.ResultCount)

	// a window needs both bounds, like lowerBound/upperBound elsewhere
	startQP, endQP := c.QueryParam("windowStart"), c.QueryParam("windowEnd")
	switch {
	case len(startQP) == 0 && len(endQP) == 0:
	case len(startQP) == 0 || len(endQP) == 0:
		messages = append(messages, "windowStart and windowEnd must be given together")
	default:
		var w models.Window
		before := len(messages)
		intParam("windowStart", &w.Start)
		intParam("windowEnd", &w.End)
		if len(messages) == before {
			params.SearchWindow = &w
		}
	}

	return messages
}
