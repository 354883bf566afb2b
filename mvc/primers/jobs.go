package primers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"primerdesign/api/contexts"
	"primerdesign/api/middleware"
	"primerdesign/api/models"
	"primerdesign/api/models/dtos"
	e "primerdesign/api/models/dtos/errors"
	"primerdesign/api/services"
)

func StartBatchDesign(c echo.Context) error {
	pc := c.(*contexts.PrimerContext)

	params := middleware.DefaultParameters(pc.Config)
	body := dtos.BatchDesignRequestDTO{Parameters: &params}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(fmt.Sprintf("invalid request body: %v", err)))
	}

	if err := middleware.EnforceCandidateCap(pc.Config, params); err != nil {
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(err.Error()))
	}

	job, err := pc.JobService.Submit(body.Identifiers, params)
	if err != nil {
		if errors.Is(err, services.ErrNoIdentifiers) || errors.Is(err, models.ErrInvalidParameters) {
			return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, e.CreateSimpleInternalServerError(err.Error()))
	}

	pc.Log.Info("batch design accepted", zap.String("job", job.Id.String()), zap.Int("identifiers", len(job.Identifiers)))
	return c.JSON(http.StatusAccepted, job)
}

func GetDesignJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, c.(*contexts.PrimerContext).JobService.List())
}

func GetDesignJob(c echo.Context) error {
	id := c.Param("id")
	job, ok := c.(*contexts.PrimerContext).JobService.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, e.CreateSimpleNotFound(fmt.Sprintf("no design job with id %s", id)))
	}
	return c.JSON(http.StatusOK, job)
}
