package primers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"primerdesign/api/models"
	responseStatus "primerdesign/api/models/constants/response-status"
	"primerdesign/api/models/dtos"
	e "primerdesign/api/models/dtos/errors"
	"primerdesign/api/mvc"
	"primerdesign/api/services/design"
	primerService "primerdesign/api/services/primers"
	"primerdesign/api/services/sequences"
)

func DesignPrimers(c echo.Context) error {
	pc, target, params := mvc.RetrieveDesignRequest(c)
	logger := pc.Log.With(zap.String("target", mvc.DisplayTarget(target)))

	logger.Debug("designing primers",
		zap.Int("resultCount", params.ResultCount),
		zap.Int("maxCandidates", params.MaxCandidates))

	dto := dtos.DesignResponseDTO{
		Target:  mvc.DisplayTarget(target),
		Results: []models.RankedDesign{},
	}

	result, err := pc.Orchestrator.Design(c.Request().Context(), target, params)
	if err != nil {
		var invalid *models.InvalidParametersError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(err.Error()))
		}

		dto.Status = design.ResponseStatusFor(err)
		dto.Message = err.Error()
		if dto.Status == responseStatus.Error {
			logger.Error("design failed unexpectedly", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, e.CreateSimpleInternalServerError(err.Error()))
		}

		logger.Info("design returned no results", zap.String("status", string(dto.Status)), zap.Error(err))
		return c.JSON(http.StatusOK, dto)
	}

	dto.Status = responseStatus.Success
	dto.Target = result.Identifier
	dto.Result = result
	if result.Designs != nil {
		dto.Results = result.Designs
	}

	logger.Info("design finished",
		zap.String("source", string(result.Source)),
		zap.Int("evaluated", result.Summary.CandidatesEvaluated),
		zap.Int("returned", len(dto.Results)))

	return c.JSON(http.StatusOK, dto)
}

// AnalyzePrimer reports the metrics of one oligo without designing a pair.
func AnalyzePrimer(c echo.Context) error {
	sequenceQP := c.QueryParam("sequence")
	if len(strings.TrimSpace(sequenceQP)) == 0 {
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Missing sequence!"))
	}

	seq, err := sequences.Normalize("primer", sequenceQP)
	if err != nil {
		var fetchErr *sequences.SequenceFetchError
		if errors.As(err, &fetchErr) {
			return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(fetchErr.Reason))
		}
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(err.Error()))
	}
	oligo := string(seq)

	params := models.DefaultDesignParameters()
	for _, p := range []struct {
		name   string
		target *int
	}{
		{"polyRunThreshold", &params.PolyRunThreshold},
		{"gcClampWindow", &params.GcClampWindow},
	} {
		if qp := c.QueryParam(p.name); len(qp) > 0 {
			v, convErr := strconv.Atoi(qp)
			if convErr != nil || v < 1 {
				return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(p.name+" must be a positive integer"))
			}
			*p.target = v
		}
	}

	gc, _ := primerService.GcPercent(oligo)
	tm, _ := primerService.MeltingTemperature(oligo)
	selfDimerRun := primerService.ThreePrimeComplementarity(oligo, oligo)

	return c.JSON(http.StatusOK, dtos.PrimerAnalysisResponseDTO{
		Sequence:          oligo,
		Length:            primerService.Length(oligo),
		GcPercent:         gc,
		MeltingTemp:       tm,
		TmFormula:         primerService.TmFormula,
		LongestRun:        primerService.LongestHomopolymer(oligo),
		HasPolyRun:        primerService.HasPolyRun(oligo, params.PolyRunThreshold),
		SelfDimerRun:      selfDimerRun,
		HasSelfDimer:      selfDimerRun >= primerService.DimerMinRun,
		HasGcClamp:        primerService.HasGcClamp(oligo, params.GcClampWindow),
		ReverseComplement: primerService.ReverseComplement(oligo),
	})
}
