package primers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"primerdesign/api/contexts"
	"primerdesign/api/models/dtos"
	e "primerdesign/api/models/dtos/errors"
	"primerdesign/api/mvc"
	esRepo "primerdesign/api/repositories/elasticsearch"
	"primerdesign/api/services/sequences"
)

const defaultHistorySize = 10

func GetDesignHistory(c echo.Context) error {
	pc := c.(*contexts.PrimerContext)
	if pc.Es7Client == nil {
		return mvc.ServiceUnavailable(c, "design history")
	}

	identifier := sequences.NormalizeIdentifier(c.QueryParam("identifier"))
	if len(identifier) == 0 {
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Missing identifier!"))
	}

	// Size
	var (
		size        int = defaultHistorySize
		sizeCastErr error
	)
	if len(c.QueryParam("size")) > 0 {
		size, sizeCastErr = strconv.Atoi(c.QueryParam("size"))
		if sizeCastErr != nil || size < 1 {
			size = defaultHistorySize
		}
	}

	docs, err := esRepo.GetDesignHistory(c.Request().Context(), pc.Config, pc.Es7Client, identifier, size)
	if err != nil {
		pc.Log.Error("design history search failed", zap.String("identifier", identifier), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, e.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, dtos.DesignHistoryResponseDTO{
		Identifier: identifier,
		Count:      len(docs),
		Results:    docs,
	})
}
