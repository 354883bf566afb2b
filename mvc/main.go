package mvc

import (
	"net/http"

	"github.com/labstack/echo"

	"primerdesign/api/contexts"
	"primerdesign/api/models"
	e "primerdesign/api/models/dtos/errors"
	"primerdesign/api/services/sequences"
)

// RetrieveDesignRequest returns what the design middleware resolved for
// the current request.
func RetrieveDesignRequest(c echo.Context) (*contexts.PrimerContext, string, models.DesignParameters) {
	pc := c.(*contexts.PrimerContext)
	return pc, pc.Target, pc.DesignParameters
}

// DisplayTarget names a target in responses and logs; raw sequences can
// be megabases long and are never echoed back.
func DisplayTarget(target string) string {
	if sequences.LooksLikeSequence(target) {
		return "sequence"
	}
	return sequences.NormalizeIdentifier(target)
}

// ServiceUnavailable reports a feature that needs Elasticsearch when no
// cluster is configured.
func ServiceUnavailable(c echo.Context, feature string) error {
	dto := e.CreateSimpleInternalServerError(feature + " requires Elasticsearch, which is not configured")
	dto.Code = http.StatusServiceUnavailable
	dto.Message = "Service Unavailable"
	return c.JSON(http.StatusServiceUnavailable, dto)
}

