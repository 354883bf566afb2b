package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"

	"primerdesign/api/contexts"
	e "primerdesign/api/models/dtos/errors"
)

/*
Echo middleware to ensure a design target was provided, either in the
request body or as one of the `gene`, `identifier` or `sequence` query
parameters
*/
func MandateDesignTarget(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		pc := c.(*contexts.PrimerContext)

		if len(strings.TrimSpace(pc.Target)) == 0 {
			for _, name := range []string{"sequence", "identifier", "gene"} {
				if qp := c.QueryParam(name); len(strings.TrimSpace(qp)) > 0 {
					pc.Target = qp
					break
				}
			}
		}

		if len(strings.TrimSpace(pc.Target)) == 0 {
			return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Missing gene, identifier or sequence!"))
		}
		return next(c)
	}
}
